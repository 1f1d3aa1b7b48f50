package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"recivo/internal/domain"
	"recivo/internal/port"
	"recivo/internal/xlsxexport"
)

// ReportService persists frozen receiving reports and serves them back.
type ReportService interface {
	Save(ctx context.Context, report *domain.ReceivingReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ReceivingReport, error)
	List(ctx context.Context, offset, limit int) ([]domain.ReceivingReport, int, error)
	ExportXLSX(ctx context.Context, id uuid.UUID) ([]byte, string, error)
}

type reportService struct {
	repo port.ReportRepository
}

// NewReportService creates a new ReportService implementation.
func NewReportService(repo port.ReportRepository) ReportService {
	return &reportService{repo: repo}
}

// Save writes the report through to storage. Storage failures pass through
// unchanged so the caller can retry the save; the source session stays alive
// until it is explicitly reset.
func (s *reportService) Save(ctx context.Context, report *domain.ReceivingReport) error {
	if err := s.repo.Create(ctx, report); err != nil {
		return fmt.Errorf("reportService.Save: %w", err)
	}
	log.Printf("reportService.Save: report %s saved with %d items", report.ID, len(report.Items))
	return nil
}

func (s *reportService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReceivingReport, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *reportService) List(ctx context.Context, offset, limit int) ([]domain.ReceivingReport, int, error) {
	return s.repo.List(ctx, offset, limit)
}

// ExportXLSX renders a stored report as a spreadsheet. It returns the file
// bytes and a suggested download filename.
func (s *reportService) ExportXLSX(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := xlsxexport.WriteReport(report)
	if err != nil {
		return nil, "", fmt.Errorf("reportService.ExportXLSX: %w", err)
	}
	name := fmt.Sprintf("receiving-report-%s.xlsx", report.CreatedAt.Format("2006-01-02"))
	return data, name, nil
}
