package main

import (
	"fmt"
	"log"

	"recivo/internal/config"
	"recivo/internal/extractor"
	"recivo/internal/extractor/gemini"
	"recivo/internal/handler"
	"recivo/internal/port"
	"recivo/internal/raster"
	"recivo/internal/repository/postgres"
	"recivo/internal/router"
	"recivo/internal/service"
	s3storage "recivo/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	reportRepo := postgres.NewReportRepo(db)
	catalogRepo := postgres.NewCatalogRepo(db)
	fileMetaRepo := postgres.NewFileMetaRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize extraction pipeline
	extractor.RegisterProvider("gemini", func(c *config.ExtractorConfig) (port.LineItemExtractor, error) {
		return gemini.NewExtractor(c), nil
	})
	lineExtractor, err := extractor.New(&cfg.Extractor)
	if err != nil {
		return fmt.Errorf("failed to initialize extractor: %w", err)
	}
	rasterizer := raster.New(cfg.Extractor.MaxPages)

	// Initialize services
	fileSvc := service.NewFileService(s3Client, fileMetaRepo, cfg.S3.Bucket, cfg.S3.MaxFileSizeMB*1024*1024)
	sessionSvc := service.NewSessionService(catalogRepo, lineExtractor, rasterizer, fileSvc)
	reportSvc := service.NewReportService(reportRepo)
	catalogSvc := service.NewCatalogService(catalogRepo)

	// Initialize handlers
	sessionH := handler.NewSessionHandler(sessionSvc, reportSvc)
	reportH := handler.NewReportHandler(reportSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	fileH := handler.NewFileHandler(fileSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(sessionH, reportH, catalogH, fileH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
