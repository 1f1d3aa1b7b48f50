package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"recivo/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND", "session not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION", "operation not allowed in the current phase"
	case errors.Is(err, domain.ErrNoVerifiedItems):
		return http.StatusConflict, "NO_VERIFIED_ITEMS", "at least one item must be verified before reporting"
	case errors.Is(err, domain.ErrEmptyExtraction):
		return http.StatusUnprocessableEntity, "EMPTY_EXTRACTION", "no line items could be extracted from the document"
	case errors.Is(err, domain.ErrExtractionInFlight):
		return http.StatusConflict, "EXTRACTION_IN_FLIGHT", "an extraction is already running for this session"
	case errors.Is(err, domain.ErrStaleExtraction):
		return http.StatusConflict, "STALE_EXTRACTION", "session was reset while the extraction was running"
	case errors.Is(err, domain.ErrItemIndexOutOfRange):
		return http.StatusNotFound, "ITEM_INDEX_OUT_OF_RANGE", "item index out of range"
	case errors.Is(err, domain.ErrItemNotCounted):
		return http.StatusConflict, "ITEM_NOT_COUNTED", "item has no counted quantity yet"
	case errors.Is(err, domain.ErrItemNotVerified):
		return http.StatusConflict, "ITEM_NOT_VERIFIED", "notes can only be added to verified items"
	case errors.Is(err, domain.ErrInvalidItemStatus):
		return http.StatusBadRequest, "INVALID_ITEM_STATUS", "invalid manual status; allowed: missing, damaged"
	case errors.Is(err, domain.ErrExtractorCredentials):
		return http.StatusBadGateway, "EXTRACTOR_CREDENTIALS", "extraction provider rejected our credentials"
	case errors.Is(err, domain.ErrExtractorQuota):
		return http.StatusTooManyRequests, "EXTRACTOR_QUOTA", "extraction provider rate limit exceeded; retry later"
	case errors.Is(err, domain.ErrExtractorBlocked):
		return http.StatusUnprocessableEntity, "EXTRACTOR_BLOCKED", "extraction provider refused to process the document"
	case errors.Is(err, domain.ErrExtractorBadOutput):
		return http.StatusBadGateway, "EXTRACTOR_BAD_OUTPUT", "extraction provider returned an unusable response"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
