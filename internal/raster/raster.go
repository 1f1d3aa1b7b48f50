// Package raster prepares uploaded source documents as ordered,
// extractor-ready page payloads.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"log"

	pdf "github.com/ledongthuc/pdf"

	"recivo/internal/port"
)

// Rasterizer implements port.Rasterizer. Image uploads pass through as a
// single page. PDF uploads are validated and page-counted; the extractor
// consumes PDFs natively with page order preserved, so the document is
// handed over as one application/pdf payload rather than re-rendered into
// bitmaps. Multi-page deliveries photographed page by page arrive as
// separate image uploads and keep the one-payload-per-page shape.
type Rasterizer struct {
	maxPages int
}

// New creates a Rasterizer. maxPages caps the accepted PDF page count;
// zero or negative means no cap.
func New(maxPages int) *Rasterizer {
	return &Rasterizer{maxPages: maxPages}
}

func (r *Rasterizer) Pages(ctx context.Context, fileBytes []byte, contentType string) ([]port.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch contentType {
	case "image/jpeg", "image/png":
		return []port.Page{{Bytes: fileBytes, ContentType: contentType}}, nil

	case "application/pdf":
		reader, err := pdf.NewReader(bytes.NewReader(fileBytes), int64(len(fileBytes)))
		if err != nil {
			return nil, fmt.Errorf("reading pdf: %w", err)
		}
		numPages := reader.NumPage()
		if numPages == 0 {
			return nil, fmt.Errorf("pdf has no pages")
		}
		if r.maxPages > 0 && numPages > r.maxPages {
			return nil, fmt.Errorf("pdf has %d pages, maximum is %d", numPages, r.maxPages)
		}
		log.Printf("raster: accepted pdf with %d pages (%d bytes)", numPages, len(fileBytes))
		return []port.Page{{Bytes: fileBytes, ContentType: contentType}}, nil

	default:
		return nil, fmt.Errorf("unsupported content type for rasterization: %s", contentType)
	}
}
