package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VerificationItem is one invoice line under reconciliation. ExpectedQty is
// the quantity the invoice claims and is immutable after creation; ActualQty
// is the user's running physical count and always starts at zero so the user
// counts the goods instead of rubber-stamping the invoice.
type VerificationItem struct {
	Name         string           `json:"name"`
	ExpectedQty  int              `json:"expected_qty"`
	ActualQty    int              `json:"actual_qty"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	Status       ItemStatus       `json:"status"`
	StatusSource StatusSource     `json:"status_source"`
	Verified     bool             `json:"verified"`
	Notes        string           `json:"notes"`
}

// VerificationSummary holds the aggregate reconciliation counts for a session.
// Pending items count toward neither Matched nor Issues; they are only
// distinguishable as Total - Verified.
type VerificationSummary struct {
	Total    int `json:"total"`
	Verified int `json:"verified"`
	Matched  int `json:"matched"`
	Issues   int `json:"issues"`
}

// ExtractedLineItem is one candidate line item returned by the extractor.
type ExtractedLineItem struct {
	Name             string           `json:"name"`
	Quantity         int              `json:"quantity"`
	UnitPrice        *decimal.Decimal `json:"unit_price,omitempty"`
	Total            *decimal.Decimal `json:"total,omitempty"`
	MatchedCatalogID string           `json:"matched_catalog_id,omitempty"`
}

// ExtractionResult is the combined extractor output for one source document,
// pages concatenated in document order.
type ExtractionResult struct {
	VendorName    string              `json:"vendor_name,omitempty"`
	InvoiceNumber string              `json:"invoice_number,omitempty"`
	InvoiceDate   string              `json:"invoice_date,omitempty"`
	Items         []ExtractedLineItem `json:"items"`
}

// ReportItem is the audit snapshot of a verification item inside a persisted
// report. Verified is deliberately dropped: a stored report has no in-progress
// items.
type ReportItem struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	ReportID    uuid.UUID        `db:"report_id" json:"report_id"`
	Position    int              `db:"position" json:"position"`
	Name        string           `db:"name" json:"name"`
	ExpectedQty int              `db:"expected_qty" json:"expected_qty"`
	ActualQty   int              `db:"actual_qty" json:"actual_qty"`
	UnitPrice   *decimal.Decimal `db:"unit_price" json:"unit_price,omitempty"`
	Status      ItemStatus       `db:"status" json:"status"`
	Notes       string           `db:"notes" json:"notes"`
}

// ReceivingReport is the immutable persisted outcome of a verification
// session. Aggregates are computed once at freeze time, never recomputed.
type ReceivingReport struct {
	ID            uuid.UUID    `db:"id" json:"id"`
	VendorName    string       `db:"vendor_name" json:"vendor_name,omitempty"`
	InvoiceNumber string       `db:"invoice_number" json:"invoice_number,omitempty"`
	Items         []ReportItem `db:"-" json:"items"`
	TotalItems    int          `db:"total_items" json:"total_items"`
	MatchedItems  int          `db:"matched_items" json:"matched_items"`
	IssueItems    int          `db:"issue_items" json:"issue_items"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
}

// CatalogItem is a reference catalog entry used to help the extractor match
// invoice lines against known products.
type CatalogItem struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	Name        string           `db:"name" json:"name"`
	SKU         string           `db:"sku" json:"sku,omitempty"`
	Description string           `db:"description" json:"description,omitempty"`
	Unit        string           `db:"unit" json:"unit,omitempty"`
	Quantity    int              `db:"quantity" json:"quantity"`
	Price       *decimal.Decimal `db:"price" json:"price,omitempty"`
	Category    string           `db:"category" json:"category,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

// FileMeta stores metadata about an uploaded source document.
type FileMeta struct {
	ID           uuid.UUID `db:"id" json:"id"`
	SessionID    uuid.UUID `db:"session_id" json:"session_id"`
	FileName     string    `db:"file_name" json:"file_name"`
	OriginalName string    `db:"original_name" json:"original_name"`
	FileType     FileType  `db:"file_type" json:"file_type"`
	FileSize     int64     `db:"file_size" json:"file_size"`
	S3Bucket     string    `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string    `db:"s3_key" json:"s3_key"`
	ContentType  string    `db:"content_type" json:"content_type"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
