package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"faktura/internal/domain"
	"faktura/internal/port"
	"faktura/internal/service"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Create(ctx context.Context, in service.CreateInvoiceInput) (*domain.Invoice, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Get(ctx context.Context, id int64) (*domain.InvoiceWithClient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceWithClient), args.Error(1)
}

func (m *MockInvoiceService) GetWithLedger(ctx context.Context, id int64) (*domain.InvoiceWithLedger, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceWithLedger), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, filter port.InvoiceFilter) ([]domain.InvoiceWithClient, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceWithClient), args.Error(1)
}

func (m *MockInvoiceService) ListWithLedger(ctx context.Context, filter port.InvoiceFilter) ([]domain.InvoiceWithLedger, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceWithLedger), args.Error(1)
}

func (m *MockInvoiceService) Update(ctx context.Context, id int64, update port.InvoiceUpdate) (*domain.Invoice, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) MarkSent(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceService) MarkPaid(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
