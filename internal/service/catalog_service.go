package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"recivo/internal/domain"
	"recivo/internal/port"
)

// CatalogService manages the reference catalog the extractor matches against.
type CatalogService interface {
	Create(ctx context.Context, item *domain.CatalogItem) error
	Import(ctx context.Context, items []domain.CatalogItem) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error)
	List(ctx context.Context, offset, limit int) ([]domain.CatalogItem, int, error)
	Update(ctx context.Context, item *domain.CatalogItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	repo port.CatalogRepository
}

// NewCatalogService creates a new CatalogService implementation.
func NewCatalogService(repo port.CatalogRepository) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) Create(ctx context.Context, item *domain.CatalogItem) error {
	if err := validateCatalogItem(item); err != nil {
		return err
	}
	now := time.Now().UTC()
	item.ID = uuid.New()
	item.CreatedAt = now
	item.UpdatedAt = now
	return s.repo.Create(ctx, item)
}

// Import bulk-loads catalog items. Entries without a name are skipped rather
// than failing the whole batch; the returned count is the number actually
// stored.
func (s *catalogService) Import(ctx context.Context, items []domain.CatalogItem) (int, error) {
	now := time.Now().UTC()
	valid := make([]domain.CatalogItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		item.ID = uuid.New()
		item.CreatedAt = now
		item.UpdatedAt = now
		valid = append(valid, item)
	}
	if len(valid) == 0 {
		return 0, fmt.Errorf("catalogService.Import: no valid items in batch")
	}
	if err := s.repo.CreateBatch(ctx, valid); err != nil {
		return 0, fmt.Errorf("catalogService.Import: %w", err)
	}
	if skipped := len(items) - len(valid); skipped > 0 {
		log.Printf("catalogService.Import: skipped %d unnamed entries", skipped)
	}
	return len(valid), nil
}

func (s *catalogService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *catalogService) List(ctx context.Context, offset, limit int) ([]domain.CatalogItem, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *catalogService) Update(ctx context.Context, item *domain.CatalogItem) error {
	if err := validateCatalogItem(item); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, item.ID)
	if err != nil {
		return err
	}
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, item)
}

func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func validateCatalogItem(item *domain.CatalogItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("catalog item name is required")
	}
	if item.Quantity < 0 {
		return fmt.Errorf("catalog item quantity cannot be negative")
	}
	return nil
}
