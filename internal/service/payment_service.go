package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"faktura/internal/domain"
	"faktura/internal/port"
)

// RecordPaymentInput carries the fields needed to record a payment.
// Date defaults to today; Currency defaults to the invoice's currency.
type RecordPaymentInput struct {
	InvoiceID int64
	Amount    decimal.Decimal
	Currency  string
	Date      *time.Time
	Method    string
	Notes     string
}

// PaymentService provides payment business logic. The sum of payments
// against an invoice never exceeds that invoice's amount; a payment equal
// to the remaining amount due succeeds and drives the invoice to paid.
type PaymentService interface {
	Record(ctx context.Context, in RecordPaymentInput) (*domain.Payment, error)
	Get(ctx context.Context, id int64) (*domain.Payment, error)
	List(ctx context.Context, filter port.PaymentFilter) ([]domain.Payment, error)
	Delete(ctx context.Context, id int64) error
}

type paymentService struct {
	payments port.PaymentRepository
	invoices port.InvoiceRepository
	now      func() time.Time
}

// NewPaymentService creates a new PaymentService implementation.
func NewPaymentService(payments port.PaymentRepository, invoices port.InvoiceRepository) PaymentService {
	return &paymentService{payments: payments, invoices: invoices, now: time.Now}
}

func (s *paymentService) Record(ctx context.Context, in RecordPaymentInput) (*domain.Payment, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	invoice, err := s.invoices.GetByID(ctx, in.InvoiceID)
	if err != nil {
		return nil, err
	}

	paid, err := s.payments.SumByInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, fmt.Errorf("summing payments: %w", err)
	}
	due := invoice.Amount.Sub(paid)
	if in.Amount.GreaterThan(due) {
		return nil, fmt.Errorf("payment of %s against remaining due %s: %w",
			in.Amount.StringFixed(2), due.StringFixed(2), domain.ErrOverpayment)
	}

	date := s.now()
	if in.Date != nil {
		date = *in.Date
	}
	currency := in.Currency
	if currency == "" {
		currency = invoice.Currency
	}

	payment := &domain.Payment{
		InvoiceID: invoice.ID,
		Amount:    in.Amount,
		Currency:  currency,
		Date:      date,
		Method:    in.Method,
		Notes:     in.Notes,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("recording payment: %w", err)
	}

	// Full settlement flips the invoice to paid. Failure here does not
	// undo the payment; the derived payment_status is already correct.
	if in.Amount.Equal(due) && invoice.Status != domain.InvoiceStatusPaid {
		if err := s.invoices.UpdateStatus(ctx, invoice.ID, domain.InvoiceStatusPaid, s.now()); err != nil {
			return payment, fmt.Errorf("marking invoice paid: %w", err)
		}
	}
	return payment, nil
}

func (s *paymentService) Get(ctx context.Context, id int64) (*domain.Payment, error) {
	return s.payments.GetByID(ctx, id)
}

func (s *paymentService) List(ctx context.Context, filter port.PaymentFilter) ([]domain.Payment, error) {
	return s.payments.List(ctx, filter)
}

func (s *paymentService) Delete(ctx context.Context, id int64) error {
	return s.payments.Delete(ctx, id)
}
