package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"recivo/internal/port"
)

// MockRasterizer is a mock implementation of port.Rasterizer.
type MockRasterizer struct {
	mock.Mock
}

func (m *MockRasterizer) Pages(ctx context.Context, fileBytes []byte, contentType string) ([]port.Page, error) {
	args := m.Called(ctx, fileBytes, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.Page), args.Error(1)
}
