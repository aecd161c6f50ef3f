package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"faktura/internal/domain"
	"faktura/internal/port"
)

type emailLogRepo struct {
	db *sqlx.DB
}

// NewEmailLogRepo creates a new PostgreSQL-backed EmailLogRepository.
func NewEmailLogRepo(db *sqlx.DB) port.EmailLogRepository {
	return &emailLogRepo{db: db}
}

func (r *emailLogRepo) Create(ctx context.Context, entry *domain.EmailLog) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO email_log (invoice_id, recipient, subject, status, error_message, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		entry.InvoiceID, entry.Recipient, entry.Subject, entry.Status,
		entry.ErrorMessage, entry.SentAt).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("emailLogRepo.Create: %w", err)
	}
	return nil
}

func (r *emailLogRepo) ListByInvoice(ctx context.Context, invoiceID int64) ([]domain.EmailLog, error) {
	var logs []domain.EmailLog
	err := r.db.SelectContext(ctx, &logs,
		"SELECT * FROM email_log WHERE invoice_id = $1 ORDER BY sent_at DESC", invoiceID)
	if err != nil {
		return nil, fmt.Errorf("emailLogRepo.ListByInvoice: %w", err)
	}
	return logs, nil
}
