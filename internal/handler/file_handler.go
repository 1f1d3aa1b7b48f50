package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recivo/internal/service"
)

// FileHandler handles archived source document endpoints.
type FileHandler struct {
	fileService service.FileService
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(fileService service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// ListBySession handles GET /api/v1/sessions/:id/files
func (h *FileHandler) ListBySession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	files, err := h.fileService.ListBySession(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, files)
}

// DownloadURL handles GET /api/v1/files/:id/url. It returns a short-lived
// presigned URL instead of proxying the object bytes.
func (h *FileHandler) DownloadURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid file ID")
		return
	}
	url, err := h.fileService.GetDownloadURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}
