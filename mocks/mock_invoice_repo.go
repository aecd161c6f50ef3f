package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"faktura/internal/domain"
	"faktura/internal/port"
)

// MockInvoiceRepo is a mock implementation of port.InvoiceRepository.
type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) Create(ctx context.Context, invoice *domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepo) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) GetByFileNumber(ctx context.Context, fileNumber int64) (*domain.Invoice, error) {
	args := m.Called(ctx, fileNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) List(ctx context.Context, filter port.InvoiceFilter) ([]domain.InvoiceWithClient, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceWithClient), args.Error(1)
}

func (m *MockInvoiceRepo) Update(ctx context.Context, id int64, update port.InvoiceUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockInvoiceRepo) UpdateStatus(ctx context.Context, id int64, status domain.InvoiceStatus, at time.Time) error {
	args := m.Called(ctx, id, status, at)
	return args.Error(0)
}

func (m *MockInvoiceRepo) SetPDFKey(ctx context.Context, id int64, key string) error {
	args := m.Called(ctx, id, key)
	return args.Error(0)
}

func (m *MockInvoiceRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepo) NextFileNumber(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepo) MaxMonthSequence(ctx context.Context, month time.Month, year int) (int, error) {
	args := m.Called(ctx, month, year)
	return args.Int(0), args.Error(1)
}
