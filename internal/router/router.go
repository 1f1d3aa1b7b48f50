package router

import (
	"github.com/gin-gonic/gin"

	"recivo/internal/handler"
	"recivo/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	sessionH *handler.SessionHandler,
	reportH *handler.ReportHandler,
	catalogH *handler.CatalogHandler,
	fileH *handler.FileHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Verification sessions
	sessions := v1.Group("/sessions")
	sessions.POST("", sessionH.Create)
	sessions.GET("/:id", sessionH.Get)
	sessions.POST("/:id/extract", sessionH.Extract)
	sessions.POST("/:id/advance", sessionH.Advance)
	sessions.POST("/:id/review", sessionH.Review)
	sessions.POST("/:id/reset", sessionH.Reset)
	sessions.POST("/:id/report", sessionH.CreateReport)
	sessions.GET("/:id/files", fileH.ListBySession)

	items := sessions.Group("/:id/items/:index")
	items.POST("/increment", sessionH.IncrementCount)
	items.POST("/decrement", sessionH.DecrementCount)
	items.POST("/reset", sessionH.ResetCount)
	items.POST("/finish", sessionH.FinishCounting)
	items.POST("/mark", sessionH.MarkAs)
	items.PUT("/notes", sessionH.SetNotes)

	// Stored reports
	reports := v1.Group("/reports")
	reports.GET("", reportH.List)
	reports.GET("/:id", reportH.Get)
	reports.GET("/:id/export", reportH.Export)

	// Reference catalog
	catalog := v1.Group("/catalog")
	catalog.POST("", catalogH.Create)
	catalog.POST("/import", catalogH.Import)
	catalog.GET("", catalogH.List)
	catalog.GET("/:id", catalogH.Get)
	catalog.PUT("/:id", catalogH.Update)
	catalog.DELETE("/:id", catalogH.Delete)

	// Archived source documents
	v1.GET("/files/:id/url", fileH.DownloadURL)

	return r
}
