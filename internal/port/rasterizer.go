package port

import "context"

// Page is one extractor-ready page payload of a source document.
type Page struct {
	Bytes       []byte
	ContentType string
}

// Rasterizer converts one uploaded source document into an ordered sequence
// of page payloads, one per page, in document order.
type Rasterizer interface {
	Pages(ctx context.Context, fileBytes []byte, contentType string) ([]Page, error)
}
