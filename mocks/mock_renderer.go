package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"faktura/internal/domain"
	"faktura/internal/port"
)

// MockRenderer is a mock implementation of port.DocumentRenderer.
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, invoice *domain.Invoice, client *domain.Client) (*port.RenderResult, error) {
	args := m.Called(ctx, invoice, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.RenderResult), args.Error(1)
}
