package port

import (
	"context"

	"recivo/internal/domain"
)

// ExtractInput carries one rasterized page plus the reference catalog used
// for line-item matching.
type ExtractInput struct {
	PageBytes   []byte
	ContentType string
	Catalog     []domain.CatalogItem
}

// ExtractOutput is the structured result for a single page.
type ExtractOutput struct {
	VendorName    string
	InvoiceNumber string
	InvoiceDate   string
	Items         []domain.ExtractedLineItem
	ModelUsed     string
}

// LineItemExtractor abstracts the AI vision service that converts an invoice
// page into structured line items. Implementations are network-bound and
// fallible; multi-page documents are extracted one page at a time and the
// caller concatenates results in page order.
type LineItemExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
