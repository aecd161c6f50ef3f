package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"faktura/internal/domain"
	"faktura/internal/service"
)

// MockDispatchService is a mock implementation of service.DispatchService.
type MockDispatchService struct {
	mock.Mock
}

func (m *MockDispatchService) SendInvoice(ctx context.Context, in service.SendInvoiceInput) (*service.DispatchResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DispatchResult), args.Error(1)
}

func (m *MockDispatchService) EmailLogs(ctx context.Context, invoiceID int64) ([]domain.EmailLog, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmailLog), args.Error(1)
}
