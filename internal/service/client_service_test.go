package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"faktura/internal/domain"
	"faktura/internal/service"
	"faktura/mocks"
)

func TestClientService_Create(t *testing.T) {
	clientRepo := new(mocks.MockClientRepo)
	svc := service.NewClientService(clientRepo)

	clientRepo.On("List", mock.Anything).Return([]domain.Client{}, nil)
	clientRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	client, err := svc.Create(context.Background(), service.CreateClientInput{
		Name:    "  Bauceram GmbH  ",
		Address: "Am Hang 2\n53347 Alfter",
		Email:   "info@bauceram.example",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Bauceram GmbH", client.Name)
	clientRepo.AssertExpectations(t)
}

func TestClientService_Create_EmptyName(t *testing.T) {
	clientRepo := new(mocks.MockClientRepo)
	svc := service.NewClientService(clientRepo)

	_, err := svc.Create(context.Background(), service.CreateClientInput{Name: "   "})
	assert.True(t, domain.IsMissingFields(err))
}

func TestClientService_Create_DuplicateNameCaseInsensitive(t *testing.T) {
	clientRepo := new(mocks.MockClientRepo)
	svc := service.NewClientService(clientRepo)

	clientRepo.On("List", mock.Anything).Return([]domain.Client{
		{ID: 1, Name: "Bauceram GmbH"},
	}, nil)

	_, err := svc.Create(context.Background(), service.CreateClientInput{Name: "bauceram gmbh"})
	assert.ErrorIs(t, err, domain.ErrDuplicateClient)
	clientRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClientService_Create_DuplicateNameFuzzy(t *testing.T) {
	clientRepo := new(mocks.MockClientRepo)
	svc := service.NewClientService(clientRepo)

	clientRepo.On("List", mock.Anything).Return([]domain.Client{
		{ID: 1, Name: "Bauceram GmbH"},
	}, nil)

	// A name that would resolve to an existing client must not become a
	// second directory entry.
	_, err := svc.Create(context.Background(), service.CreateClientInput{Name: "Bauceram"})
	assert.ErrorIs(t, err, domain.ErrDuplicateClient)
	clientRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClientService_Create_UnrelatedNameAccepted(t *testing.T) {
	clientRepo := new(mocks.MockClientRepo)
	svc := service.NewClientService(clientRepo)

	clientRepo.On("List", mock.Anything).Return([]domain.Client{
		{ID: 1, Name: "Bauceram GmbH"},
	}, nil)
	clientRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Client) bool {
		return c.Name == "Neubau AG"
	})).Return(nil)

	client, err := svc.Create(context.Background(), service.CreateClientInput{Name: "Neubau AG"})
	require.NoError(t, err)
	assert.Equal(t, "Neubau AG", client.Name)
}

func TestClientService_Delete_NoInvoices(t *testing.T) {
	clientRepo := new(mocks.MockClientRepo)
	svc := service.NewClientService(clientRepo)

	clientRepo.On("CountInvoices", mock.Anything, int64(1)).Return(0, nil)
	clientRepo.On("Delete", mock.Anything, int64(1)).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), 1))
	clientRepo.AssertExpectations(t)
}

func TestClientService_Delete_BlockedByInvoices(t *testing.T) {
	clientRepo := new(mocks.MockClientRepo)
	svc := service.NewClientService(clientRepo)

	clientRepo.On("CountInvoices", mock.Anything, int64(1)).Return(3, nil)

	err := svc.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrClientHasInvoices)
	clientRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
