package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"recivo/internal/domain"
	"recivo/internal/port"
)

type reportRepo struct {
	db *sqlx.DB
}

// NewReportRepo creates a new PostgreSQL-backed ReportRepository.
func NewReportRepo(db *sqlx.DB) port.ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Create(ctx context.Context, report *domain.ReceivingReport) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("reportRepo.Create: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO receiving_reports (id, vendor_name, invoice_number, total_items, matched_items, issue_items, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		report.ID, report.VendorName, report.InvoiceNumber,
		report.TotalItems, report.MatchedItems, report.IssueItems, report.CreatedAt)
	if err != nil {
		return fmt.Errorf("reportRepo.Create: %w", err)
	}

	for i := range report.Items {
		item := &report.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.ReportID = report.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO report_items (id, report_id, position, name, expected_qty, actual_qty, unit_price, status, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			item.ID, item.ReportID, item.Position, item.Name,
			item.ExpectedQty, item.ActualQty, item.UnitPrice, item.Status, item.Notes)
		if err != nil {
			return fmt.Errorf("reportRepo.Create: item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reportRepo.Create: commit: %w", err)
	}
	return nil
}

func (r *reportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReceivingReport, error) {
	var report domain.ReceivingReport
	err := r.db.GetContext(ctx, &report,
		"SELECT * FROM receiving_reports WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reportRepo.GetByID: %w", err)
	}

	err = r.db.SelectContext(ctx, &report.Items,
		"SELECT * FROM report_items WHERE report_id = $1 ORDER BY position", id)
	if err != nil {
		return nil, fmt.Errorf("reportRepo.GetByID: items: %w", err)
	}
	return &report, nil
}

func (r *reportRepo) List(ctx context.Context, offset, limit int) ([]domain.ReceivingReport, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM receiving_reports"); err != nil {
		return nil, 0, fmt.Errorf("reportRepo.List: count: %w", err)
	}

	reports := []domain.ReceivingReport{}
	err := r.db.SelectContext(ctx, &reports,
		"SELECT * FROM receiving_reports ORDER BY created_at DESC OFFSET $1 LIMIT $2", offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("reportRepo.List: %w", err)
	}
	return reports, total, nil
}
