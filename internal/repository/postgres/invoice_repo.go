package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"faktura/internal/domain"
	"faktura/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, invoice *domain.Invoice) error {
	now := time.Now().UTC()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	query := `INSERT INTO invoices
		(file_number, invoice_number, client_id, description, amount, currency,
		 issue_date, due_date, work_dates, status, pdf_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		invoice.FileNumber, invoice.InvoiceNumber, invoice.ClientID, invoice.Description,
		invoice.Amount, invoice.Currency, invoice.IssueDate, invoice.DueDate,
		invoice.WorkDates, invoice.Status, invoice.PDFKey,
		invoice.CreatedAt, invoice.UpdatedAt).Scan(&invoice.ID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.GetContext(ctx, &invoice, "SELECT * FROM invoices WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepo) GetByFileNumber(ctx context.Context, fileNumber int64) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.GetContext(ctx, &invoice, "SELECT * FROM invoices WHERE file_number = $1", fileNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByFileNumber: %w", err)
	}
	return &invoice, nil
}

// invoiceWithClientRow flattens the invoice/client join for sqlx scanning.
type invoiceWithClientRow struct {
	domain.Invoice
	ClientName          string    `db:"client_name"`
	ClientAddress       string    `db:"client_address"`
	ClientCompanyID     string    `db:"client_company_id"`
	ClientEmail         string    `db:"client_email"`
	ClientContactPerson string    `db:"client_contact_person"`
	ClientPhone         string    `db:"client_phone"`
	ClientCreatedAt     time.Time `db:"client_created_at"`
	ClientUpdatedAt     time.Time `db:"client_updated_at"`
}

func (row *invoiceWithClientRow) toDomain() domain.InvoiceWithClient {
	return domain.InvoiceWithClient{
		Invoice: row.Invoice,
		Client: domain.Client{
			ID:            row.ClientID,
			Name:          row.ClientName,
			Address:       row.ClientAddress,
			CompanyID:     row.ClientCompanyID,
			Email:         row.ClientEmail,
			ContactPerson: row.ClientContactPerson,
			Phone:         row.ClientPhone,
			CreatedAt:     row.ClientCreatedAt,
			UpdatedAt:     row.ClientUpdatedAt,
		},
	}
}

const invoiceJoinSelect = `SELECT i.*,
	c.name AS client_name, c.address AS client_address, c.company_id AS client_company_id,
	c.email AS client_email, c.contact_person AS client_contact_person, c.phone AS client_phone,
	c.created_at AS client_created_at, c.updated_at AS client_updated_at
	FROM invoices i INNER JOIN clients c ON c.id = i.client_id`

func (r *invoiceRepo) List(ctx context.Context, filter port.InvoiceFilter) ([]domain.InvoiceWithClient, error) {
	query := invoiceJoinSelect
	var conds []string
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, "i.status = $"+strconv.Itoa(len(args)))
	}
	if filter.ClientID != 0 {
		args = append(args, filter.ClientID)
		conds = append(conds, "i.client_id = $"+strconv.Itoa(len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY i.issue_date DESC, i.id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	var rows []invoiceWithClientRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("invoiceRepo.List: %w", err)
	}

	out := make([]domain.InvoiceWithClient, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *invoiceRepo) Update(ctx context.Context, id int64, update port.InvoiceUpdate) error {
	var sets []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.Amount != nil {
		add("amount", *update.Amount)
	}
	if update.Currency != nil {
		add("currency", *update.Currency)
	}
	if update.IssueDate != nil {
		add("issue_date", *update.IssueDate)
	}
	if update.DueDate != nil {
		add("due_date", *update.DueDate)
	}
	if update.WorkDates != nil {
		add("work_dates", *update.WorkDates)
	}
	if update.Status != nil {
		add("status", *update.Status)
	}
	if len(sets) == 0 {
		return nil
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE invoices SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, id int64, status domain.InvoiceStatus, at time.Time) error {
	var query string
	switch status {
	case domain.InvoiceStatusSent:
		query = "UPDATE invoices SET status = $1, sent_at = $2, updated_at = $2 WHERE id = $3"
	case domain.InvoiceStatusPaid:
		query = "UPDATE invoices SET status = $1, paid_at = $2, updated_at = $2 WHERE id = $3"
	default:
		query = "UPDATE invoices SET status = $1, updated_at = $2 WHERE id = $3"
	}

	result, err := r.db.ExecContext(ctx, query, status, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) SetPDFKey(ctx context.Context, id int64, key string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE invoices SET pdf_key = $1, updated_at = $2 WHERE id = $3", key, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.SetPDFKey: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM invoices WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) NextFileNumber(ctx context.Context) (int64, error) {
	var next int64
	err := r.db.GetContext(ctx, &next, "SELECT COALESCE(MAX(file_number), 0) + 1 FROM invoices")
	if err != nil {
		return 0, fmt.Errorf("invoiceRepo.NextFileNumber: %w", err)
	}
	return next, nil
}

// MaxMonthSequence returns the highest leading sequence among invoice numbers
// issued in the given month. Invoice numbers are formatted SEQ/MM/YYYY.
func (r *invoiceRepo) MaxMonthSequence(ctx context.Context, month time.Month, year int) (int, error) {
	suffix := fmt.Sprintf("%%/%02d/%d", int(month), year)
	var max int
	err := r.db.GetContext(ctx, &max,
		`SELECT COALESCE(MAX(split_part(invoice_number, '/', 1)::int), 0)
		 FROM invoices WHERE invoice_number LIKE $1`, suffix)
	if err != nil {
		return 0, fmt.Errorf("invoiceRepo.MaxMonthSequence: %w", err)
	}
	return max, nil
}
