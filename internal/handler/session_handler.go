package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recivo/internal/domain"
	"recivo/internal/extractor"
	"recivo/internal/service"
)

// SessionHandler handles verification session endpoints.
type SessionHandler struct {
	sessionService service.SessionService
	reportService  service.ReportService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService, reportService service.ReportService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, reportService: reportService}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	state := h.sessionService.Create(c.Request.Context())
	RespondCreated(c, state)
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	state, err := h.sessionService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, state)
}

// Extract handles POST /api/v1/sessions/:id/extract. It accepts one or more
// source documents in the multipart "files" field, in page order.
func (h *SessionHandler) Extract(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_MULTIPART", "request must be multipart/form-data")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "at least one file is required")
		return
	}

	uploads := make([]service.PageUpload, 0, len(files))
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
			return
		}
		uploads = append(uploads, service.PageUpload{
			Data:        data,
			ContentType: header.Header.Get("Content-Type"),
			Filename:    header.Filename,
		})
	}

	state, err := h.sessionService.ExtractAndBegin(c.Request.Context(), id, uploads)
	if err != nil {
		var rateErr *extractor.RateLimitError
		if errors.As(err, &rateErr) {
			c.Header("Retry-After", strconv.Itoa(int(rateErr.RetryAfter.Seconds())))
		}
		HandleError(c, err)
		return
	}
	RespondOK(c, state)
}

// Advance handles POST /api/v1/sessions/:id/advance
func (h *SessionHandler) Advance(c *gin.Context) {
	h.sessionOp(c, h.sessionService.Advance)
}

// Review handles POST /api/v1/sessions/:id/review
func (h *SessionHandler) Review(c *gin.Context) {
	h.sessionOp(c, h.sessionService.Review)
}

// Reset handles POST /api/v1/sessions/:id/reset
func (h *SessionHandler) Reset(c *gin.Context) {
	h.sessionOp(c, h.sessionService.Reset)
}

// IncrementCount handles POST /api/v1/sessions/:id/items/:index/increment
func (h *SessionHandler) IncrementCount(c *gin.Context) {
	h.itemOp(c, h.sessionService.IncrementCount)
}

// DecrementCount handles POST /api/v1/sessions/:id/items/:index/decrement
func (h *SessionHandler) DecrementCount(c *gin.Context) {
	h.itemOp(c, h.sessionService.DecrementCount)
}

// ResetCount handles POST /api/v1/sessions/:id/items/:index/reset
func (h *SessionHandler) ResetCount(c *gin.Context) {
	h.itemOp(c, h.sessionService.ResetCount)
}

// FinishCounting handles POST /api/v1/sessions/:id/items/:index/finish
func (h *SessionHandler) FinishCounting(c *gin.Context) {
	h.itemOp(c, h.sessionService.FinishCounting)
}

type markAsRequest struct {
	Status domain.ItemStatus `json:"status" binding:"required"`
}

// MarkAs handles POST /api/v1/sessions/:id/items/:index/mark
func (h *SessionHandler) MarkAs(c *gin.Context) {
	id, index, ok := parseItemRef(c)
	if !ok {
		return
	}
	var req markAsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "status field is required")
		return
	}
	state, err := h.sessionService.MarkAs(c.Request.Context(), id, index, req.Status)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, state)
}

type notesRequest struct {
	Notes string `json:"notes"`
}

// SetNotes handles PUT /api/v1/sessions/:id/items/:index/notes
func (h *SessionHandler) SetNotes(c *gin.Context) {
	id, index, ok := parseItemRef(c)
	if !ok {
		return
	}
	var req notesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	state, err := h.sessionService.SetNotes(c.Request.Context(), id, index, req.Notes)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, state)
}

// CreateReport handles POST /api/v1/sessions/:id/report. It freezes the
// session into a report and persists it. The session survives a failed save
// so the request can simply be retried.
func (h *SessionHandler) CreateReport(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	report, err := h.sessionService.BuildReport(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	if err := h.reportService.Save(c.Request.Context(), report); err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, report)
}

func (h *SessionHandler) sessionOp(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*service.SessionState, error)) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	state, err := op(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, state)
}

func (h *SessionHandler) itemOp(c *gin.Context, op func(ctx context.Context, id uuid.UUID, index int) (*service.SessionState, error)) {
	id, index, ok := parseItemRef(c)
	if !ok {
		return
	}
	state, err := op(c.Request.Context(), id, index)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, state)
}

func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}

func parseItemRef(c *gin.Context) (uuid.UUID, int, bool) {
	id, ok := parseSessionID(c)
	if !ok {
		return uuid.Nil, 0, false
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INDEX", "invalid item index")
		return uuid.Nil, 0, false
	}
	return id, index, true
}
