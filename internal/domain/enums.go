package domain

// SessionPhase represents the workflow stage a verification session occupies.
type SessionPhase string

const (
	PhaseScan   SessionPhase = "scan"
	PhaseVerify SessionPhase = "verify"
	PhaseReport SessionPhase = "report"
)

// ItemStatus represents the reconciliation outcome for a single line item.
type ItemStatus string

const (
	StatusPending  ItemStatus = "pending"
	StatusMatch    ItemStatus = "match"
	StatusShortage ItemStatus = "shortage"
	StatusOverage  ItemStatus = "overage"
	StatusMissing  ItemStatus = "missing"
	StatusDamaged  ItemStatus = "damaged"
)

// IssueStatuses is the set of statuses that count as discrepancies.
var IssueStatuses = map[ItemStatus]bool{
	StatusShortage: true,
	StatusOverage:  true,
	StatusMissing:  true,
	StatusDamaged:  true,
}

// ManualStatuses is the set of statuses a user may set directly during verification.
var ManualStatuses = map[ItemStatus]bool{
	StatusMissing: true,
	StatusDamaged: true,
}

// IsIssue reports whether the status counts as a discrepancy.
func (s ItemStatus) IsIssue() bool {
	return IssueStatuses[s]
}

// StatusSource records which rule last wrote an item's status. Count-driven
// derivation and manual overrides feed the same field with last-write-wins
// semantics; the source makes that interplay observable.
type StatusSource string

const (
	SourceCount  StatusSource = "count"
	SourceManual StatusSource = "manual"
)

// FileType represents the allowed source document types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}
