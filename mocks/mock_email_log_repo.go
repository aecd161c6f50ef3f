package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"faktura/internal/domain"
)

// MockEmailLogRepo is a mock implementation of port.EmailLogRepository.
type MockEmailLogRepo struct {
	mock.Mock
}

func (m *MockEmailLogRepo) Create(ctx context.Context, entry *domain.EmailLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEmailLogRepo) ListByInvoice(ctx context.Context, invoiceID int64) ([]domain.EmailLog, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmailLog), args.Error(1)
}
