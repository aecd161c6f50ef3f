package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"faktura/internal/domain"
	"faktura/internal/port"
)

type clientRepo struct {
	db *sqlx.DB
}

// NewClientRepo creates a new PostgreSQL-backed ClientRepository.
func NewClientRepo(db *sqlx.DB) port.ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, client *domain.Client) error {
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	query := `INSERT INTO clients (name, address, company_id, email, contact_person, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		client.Name, client.Address, client.CompanyID, client.Email,
		client.ContactPerson, client.Phone, client.CreatedAt, client.UpdatedAt).Scan(&client.ID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "name") {
			return domain.ErrDuplicateClient
		}
		return fmt.Errorf("clientRepo.Create: %w", err)
	}
	return nil
}

func (r *clientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	var client domain.Client
	err := r.db.GetContext(ctx, &client, "SELECT * FROM clients WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("clientRepo.GetByID: %w", err)
	}
	return &client, nil
}

func (r *clientRepo) List(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client
	err := r.db.SelectContext(ctx, &clients, "SELECT * FROM clients ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("clientRepo.List: %w", err)
	}
	return clients, nil
}

func (r *clientRepo) Update(ctx context.Context, client *domain.Client) error {
	client.UpdatedAt = time.Now().UTC()
	query := `UPDATE clients SET name = $1, address = $2, company_id = $3, email = $4,
		contact_person = $5, phone = $6, updated_at = $7 WHERE id = $8`
	result, err := r.db.ExecContext(ctx, query,
		client.Name, client.Address, client.CompanyID, client.Email,
		client.ContactPerson, client.Phone, client.UpdatedAt, client.ID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "name") {
			return domain.ErrDuplicateClient
		}
		return fmt.Errorf("clientRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *clientRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM clients WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("clientRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *clientRepo) CountInvoices(ctx context.Context, clientID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM invoices WHERE client_id = $1", clientID)
	if err != nil {
		return 0, fmt.Errorf("clientRepo.CountInvoices: %w", err)
	}
	return count, nil
}
