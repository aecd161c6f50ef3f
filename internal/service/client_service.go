package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"faktura/internal/domain"
	"faktura/internal/port"
)

// CreateClientInput carries the fields needed to add a client. Only the
// name is required.
type CreateClientInput struct {
	Name          string
	Address       string
	CompanyID     string
	Email         string
	ContactPerson string
	Phone         string
}

// ClientService provides client directory business logic.
type ClientService interface {
	Create(ctx context.Context, in CreateClientInput) (*domain.Client, error)
	Get(ctx context.Context, id int64) (*domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id int64) error
}

type clientService struct {
	clients port.ClientRepository
}

// NewClientService creates a new ClientService implementation.
func NewClientService(clients port.ClientRepository) ClientService {
	return &clientService{clients: clients}
}

func (s *clientService) Create(ctx context.Context, in CreateClientInput) (*domain.Client, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewMissingFieldsError("client_name")
	}

	existing, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	// The same fuzzy rules used to look clients up decide what counts as a
	// duplicate: a name the matcher would resolve to an existing client (or
	// flag as ambiguous) must not enter the directory as a second record.
	if _, err := domain.MatchClient(name, existing); !errors.Is(err, domain.ErrClientNotFound) {
		return nil, domain.ErrDuplicateClient
	}

	client := &domain.Client{
		Name:          name,
		Address:       in.Address,
		CompanyID:     in.CompanyID,
		Email:         in.Email,
		ContactPerson: in.ContactPerson,
		Phone:         in.Phone,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	return client, nil
}

func (s *clientService) Get(ctx context.Context, id int64) (*domain.Client, error) {
	return s.clients.GetByID(ctx, id)
}

func (s *clientService) List(ctx context.Context) ([]domain.Client, error) {
	return s.clients.List(ctx)
}

func (s *clientService) Update(ctx context.Context, client *domain.Client) error {
	return s.clients.Update(ctx, client)
}

// Delete removes a client only when it has no invoices, in any status.
func (s *clientService) Delete(ctx context.Context, id int64) error {
	count, err := s.clients.CountInvoices(ctx, id)
	if err != nil {
		return fmt.Errorf("counting invoices: %w", err)
	}
	if count > 0 {
		return domain.ErrClientHasInvoices
	}
	return s.clients.Delete(ctx, id)
}
