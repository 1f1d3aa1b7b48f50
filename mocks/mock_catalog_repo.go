package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"recivo/internal/domain"
)

// MockCatalogRepo is a mock implementation of port.CatalogRepository.
type MockCatalogRepo struct {
	mock.Mock
}

func (m *MockCatalogRepo) Create(ctx context.Context, item *domain.CatalogItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCatalogRepo) CreateBatch(ctx context.Context, items []domain.CatalogItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockCatalogRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogItem), args.Error(1)
}

func (m *MockCatalogRepo) List(ctx context.Context, offset, limit int) ([]domain.CatalogItem, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.CatalogItem), args.Int(1), args.Error(2)
}

func (m *MockCatalogRepo) ListAll(ctx context.Context) ([]domain.CatalogItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CatalogItem), args.Error(1)
}

func (m *MockCatalogRepo) Update(ctx context.Context, item *domain.CatalogItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCatalogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
