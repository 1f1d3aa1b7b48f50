package port

import (
	"context"

	"github.com/google/uuid"

	"recivo/internal/domain"
)

// ReportRepository defines the contract for receiving-report persistence.
// The core treats storage failures as opaque pass-through errors; it does
// not retry writes itself.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.ReceivingReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ReceivingReport, error)
	// List returns stored reports in descending creation-time order.
	List(ctx context.Context, offset, limit int) ([]domain.ReceivingReport, int, error)
}

// CatalogRepository defines the contract for reference catalog persistence.
type CatalogRepository interface {
	Create(ctx context.Context, item *domain.CatalogItem) error
	CreateBatch(ctx context.Context, items []domain.CatalogItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error)
	List(ctx context.Context, offset, limit int) ([]domain.CatalogItem, int, error)
	ListAll(ctx context.Context) ([]domain.CatalogItem, error)
	Update(ctx context.Context, item *domain.CatalogItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// FileMetaRepository defines the contract for source document metadata.
type FileMetaRepository interface {
	Create(ctx context.Context, meta *domain.FileMeta) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FileMeta, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.FileMeta, error)
}
