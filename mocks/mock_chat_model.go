package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"faktura/internal/port"
)

// MockChatModel is a mock implementation of port.ChatModel.
type MockChatModel struct {
	mock.Mock
}

func (m *MockChatModel) Complete(ctx context.Context, req port.ChatRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
