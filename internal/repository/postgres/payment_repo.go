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
	"github.com/shopspring/decimal"

	"faktura/internal/domain"
	"faktura/internal/port"
)

type paymentRepo struct {
	db *sqlx.DB
}

// NewPaymentRepo creates a new PostgreSQL-backed PaymentRepository.
func NewPaymentRepo(db *sqlx.DB) port.PaymentRepository {
	return &paymentRepo{db: db}
}

// Create inserts the payment after re-checking the overpayment cap under a
// row lock on the invoice, so concurrent payments against the same invoice
// cannot jointly exceed its amount.
func (r *paymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("paymentRepo.Create begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var invoiceAmount decimal.Decimal
	err = tx.GetContext(ctx, &invoiceAmount,
		"SELECT amount FROM invoices WHERE id = $1 FOR UPDATE", payment.InvoiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrInvoiceNotFound
		}
		return fmt.Errorf("paymentRepo.Create invoice lock: %w", err)
	}

	var paid decimal.Decimal
	err = tx.GetContext(ctx, &paid,
		"SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1", payment.InvoiceID)
	if err != nil {
		return fmt.Errorf("paymentRepo.Create sum: %w", err)
	}

	if paid.Add(payment.Amount).GreaterThan(invoiceAmount) {
		return domain.ErrOverpayment
	}

	payment.CreatedAt = time.Now().UTC()
	err = tx.QueryRowContext(ctx,
		`INSERT INTO payments (invoice_id, amount, currency, date, method, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		payment.InvoiceID, payment.Amount, payment.Currency, payment.Date,
		payment.Method, payment.Notes, payment.CreatedAt).Scan(&payment.ID)
	if err != nil {
		return fmt.Errorf("paymentRepo.Create insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("paymentRepo.Create commit: %w", err)
	}
	return nil
}

func (r *paymentRepo) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.GetContext(ctx, &payment, "SELECT * FROM payments WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("paymentRepo.GetByID: %w", err)
	}
	return &payment, nil
}

func (r *paymentRepo) List(ctx context.Context, filter port.PaymentFilter) ([]domain.Payment, error) {
	query := "SELECT p.* FROM payments p"
	var conds []string
	var args []interface{}

	if filter.ClientID != 0 {
		query += " INNER JOIN invoices i ON i.id = p.invoice_id"
		args = append(args, filter.ClientID)
		conds = append(conds, "i.client_id = $"+strconv.Itoa(len(args)))
	}
	if filter.InvoiceID != 0 {
		args = append(args, filter.InvoiceID)
		conds = append(conds, "p.invoice_id = $"+strconv.Itoa(len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY p.date DESC, p.id DESC"

	var payments []domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, fmt.Errorf("paymentRepo.List: %w", err)
	}
	return payments, nil
}

func (r *paymentRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM payments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("paymentRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

func (r *paymentRepo) SumByInvoice(ctx context.Context, invoiceID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.GetContext(ctx, &sum,
		"SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1", invoiceID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("paymentRepo.SumByInvoice: %w", err)
	}
	return sum, nil
}
