package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"faktura/internal/domain"
)

// ClientRepository defines the contract for client persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id int64) error
	CountInvoices(ctx context.Context, clientID int64) (int, error)
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	Status   domain.InvoiceStatus
	ClientID int64
	Limit    int
	Offset   int
}

// InvoiceUpdate carries the partial fields of an invoice edit. Nil fields
// are left untouched.
type InvoiceUpdate struct {
	Description *string
	Amount      *decimal.Decimal
	Currency    *string
	IssueDate   *time.Time
	DueDate     *time.Time
	WorkDates   *string
	Status      *domain.InvoiceStatus
}

// IsEmpty reports whether the update carries no fields at all.
func (u *InvoiceUpdate) IsEmpty() bool {
	return u.Description == nil && u.Amount == nil && u.Currency == nil &&
		u.IssueDate == nil && u.DueDate == nil && u.WorkDates == nil && u.Status == nil
}

// InvoiceRepository defines the contract for invoice persistence.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	GetByFileNumber(ctx context.Context, fileNumber int64) (*domain.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]domain.InvoiceWithClient, error)
	Update(ctx context.Context, id int64, update InvoiceUpdate) error
	UpdateStatus(ctx context.Context, id int64, status domain.InvoiceStatus, at time.Time) error
	SetPDFKey(ctx context.Context, id int64, key string) error
	Delete(ctx context.Context, id int64) error
	NextFileNumber(ctx context.Context) (int64, error)
	MaxMonthSequence(ctx context.Context, month time.Month, year int) (int, error)
}

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	InvoiceID int64
	ClientID  int64
}

// PaymentRepository defines the contract for payment persistence.
// Create enforces the overpayment cap transactionally: it fails with
// domain.ErrOverpayment when the new payment would push the invoice's
// payment sum past its amount.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]domain.Payment, error)
	Delete(ctx context.Context, id int64) error
	SumByInvoice(ctx context.Context, invoiceID int64) (decimal.Decimal, error)
}

// EmailLogRepository records invoice email delivery attempts.
type EmailLogRepository interface {
	Create(ctx context.Context, entry *domain.EmailLog) error
	ListByInvoice(ctx context.Context, invoiceID int64) ([]domain.EmailLog, error)
}
