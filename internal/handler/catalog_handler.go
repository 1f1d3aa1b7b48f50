package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"recivo/internal/domain"
	"recivo/internal/service"
)

// CatalogHandler handles reference catalog endpoints.
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

type catalogItemRequest struct {
	Name        string           `json:"name" binding:"required"`
	SKU         string           `json:"sku"`
	Description string           `json:"description"`
	Unit        string           `json:"unit"`
	Quantity    int              `json:"quantity"`
	Price       *decimal.Decimal `json:"price"`
	Category    string           `json:"category"`
}

func (r catalogItemRequest) toDomain() domain.CatalogItem {
	return domain.CatalogItem{
		Name:        r.Name,
		SKU:         r.SKU,
		Description: r.Description,
		Unit:        r.Unit,
		Quantity:    r.Quantity,
		Price:       r.Price,
		Category:    r.Category,
	}
}

// Create handles POST /api/v1/catalog
func (h *CatalogHandler) Create(c *gin.Context) {
	var req catalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name field is required")
		return
	}
	item := req.toDomain()
	if err := h.catalogService.Create(c.Request.Context(), &item); err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, item)
}

// Import handles POST /api/v1/catalog/import
func (h *CatalogHandler) Import(c *gin.Context) {
	var req struct {
		Items []catalogItemRequest `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "items array is required")
		return
	}
	items := make([]domain.CatalogItem, 0, len(req.Items))
	for _, r := range req.Items {
		items = append(items, r.toDomain())
	}
	count, err := h.catalogService.Import(c.Request.Context(), items)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, gin.H{"imported": count})
}

// List handles GET /api/v1/catalog
func (h *CatalogHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)
	items, total, err := h.catalogService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, items, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/catalog/:id
func (h *CatalogHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid catalog item ID")
		return
	}
	item, err := h.catalogService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, item)
}

// Update handles PUT /api/v1/catalog/:id
func (h *CatalogHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid catalog item ID")
		return
	}
	var req catalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name field is required")
		return
	}
	item := req.toDomain()
	item.ID = id
	if err := h.catalogService.Update(c.Request.Context(), &item); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, item)
}

// Delete handles DELETE /api/v1/catalog/:id
func (h *CatalogHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid catalog item ID")
		return
	}
	if err := h.catalogService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}
