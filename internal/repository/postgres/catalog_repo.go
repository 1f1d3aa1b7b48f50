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

type catalogRepo struct {
	db *sqlx.DB
}

// NewCatalogRepo creates a new PostgreSQL-backed CatalogRepository.
func NewCatalogRepo(db *sqlx.DB) port.CatalogRepository {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) Create(ctx context.Context, item *domain.CatalogItem) error {
	item.ID = uuid.New()
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO catalog_items (id, name, sku, description, unit, quantity, price, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		item.ID, item.Name, item.SKU, item.Description, item.Unit,
		item.Quantity, item.Price, item.Category, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("catalogRepo.Create: %w", err)
	}
	return nil
}

func (r *catalogRepo) CreateBatch(ctx context.Context, items []domain.CatalogItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalogRepo.CreateBatch: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for i := range items {
		item := &items[i]
		item.ID = uuid.New()
		item.CreatedAt = now
		item.UpdatedAt = now
		_, err = tx.ExecContext(ctx,
			`INSERT INTO catalog_items (id, name, sku, description, unit, quantity, price, category, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			item.ID, item.Name, item.SKU, item.Description, item.Unit,
			item.Quantity, item.Price, item.Category, item.CreatedAt, item.UpdatedAt)
		if err != nil {
			return fmt.Errorf("catalogRepo.CreateBatch: item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("catalogRepo.CreateBatch: commit: %w", err)
	}
	return nil
}

func (r *catalogRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error) {
	var item domain.CatalogItem
	err := r.db.GetContext(ctx, &item, "SELECT * FROM catalog_items WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("catalogRepo.GetByID: %w", err)
	}
	return &item, nil
}

func (r *catalogRepo) List(ctx context.Context, offset, limit int) ([]domain.CatalogItem, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM catalog_items"); err != nil {
		return nil, 0, fmt.Errorf("catalogRepo.List: count: %w", err)
	}

	items := []domain.CatalogItem{}
	err := r.db.SelectContext(ctx, &items,
		"SELECT * FROM catalog_items ORDER BY created_at DESC OFFSET $1 LIMIT $2", offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("catalogRepo.List: %w", err)
	}
	return items, total, nil
}

func (r *catalogRepo) ListAll(ctx context.Context) ([]domain.CatalogItem, error) {
	items := []domain.CatalogItem{}
	err := r.db.SelectContext(ctx, &items, "SELECT * FROM catalog_items ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.ListAll: %w", err)
	}
	return items, nil
}

func (r *catalogRepo) Update(ctx context.Context, item *domain.CatalogItem) error {
	item.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE catalog_items SET name = $1, sku = $2, description = $3, unit = $4,
		quantity = $5, price = $6, category = $7, updated_at = $8 WHERE id = $9`,
		item.Name, item.SKU, item.Description, item.Unit,
		item.Quantity, item.Price, item.Category, item.UpdatedAt, item.ID)
	if err != nil {
		return fmt.Errorf("catalogRepo.Update: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("catalogRepo.Update: rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *catalogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM catalog_items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("catalogRepo.Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("catalogRepo.Delete: rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
