package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrSessionNotFound     = errors.New("verification session not found")
	ErrInvalidTransition   = errors.New("invalid session phase transition")
	ErrNoVerifiedItems     = errors.New("cannot advance to report with no verified items")
	ErrEmptyExtraction     = errors.New("extraction returned no line items")
	ErrExtractionInFlight  = errors.New("an extraction is already in flight for this session")
	ErrStaleExtraction     = errors.New("extraction result is stale for this session")
	ErrItemIndexOutOfRange = errors.New("item index out of range")
	ErrItemNotCounted      = errors.New("item has no counted quantity yet")
	ErrItemNotVerified     = errors.New("item is not verified yet")
	ErrInvalidItemStatus   = errors.New("status is not a valid manual override")

	ErrExtractorCredentials = errors.New("extractor credentials are invalid")
	ErrExtractorQuota       = errors.New("extractor quota exhausted")
	ErrExtractorBlocked     = errors.New("extractor rejected the image for content safety")
	ErrExtractorBadOutput   = errors.New("extractor returned unparseable output")

	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
)
