package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"faktura/internal/domain"
	"faktura/internal/port"
)

// CreateInvoiceInput carries the fields needed to create an invoice.
// IssueDate defaults to today and DueDate to issue date + 30 days.
type CreateInvoiceInput struct {
	ClientID    int64
	Description string
	Amount      decimal.Decimal
	Currency    string
	IssueDate   *time.Time
	DueDate     *time.Time
	WorkDates   string
}

// InvoiceService provides invoice business logic: numbering, lifecycle
// transitions and ledger-annotated reads.
type InvoiceService interface {
	Create(ctx context.Context, in CreateInvoiceInput) (*domain.Invoice, error)
	Get(ctx context.Context, id int64) (*domain.InvoiceWithClient, error)
	GetWithLedger(ctx context.Context, id int64) (*domain.InvoiceWithLedger, error)
	List(ctx context.Context, filter port.InvoiceFilter) ([]domain.InvoiceWithClient, error)
	ListWithLedger(ctx context.Context, filter port.InvoiceFilter) ([]domain.InvoiceWithLedger, error)
	Update(ctx context.Context, id int64, update port.InvoiceUpdate) (*domain.Invoice, error)
	MarkSent(ctx context.Context, id int64) error
	MarkPaid(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type invoiceService struct {
	invoices port.InvoiceRepository
	clients  port.ClientRepository
	payments port.PaymentRepository
	now      func() time.Time
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(invoices port.InvoiceRepository, clients port.ClientRepository, payments port.PaymentRepository) InvoiceService {
	return &invoiceService{invoices: invoices, clients: clients, payments: payments, now: time.Now}
}

func (s *invoiceService) Create(ctx context.Context, in CreateInvoiceInput) (*domain.Invoice, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if _, err := s.clients.GetByID(ctx, in.ClientID); err != nil {
		return nil, err
	}

	fileNumber, err := s.invoices.NextFileNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocating file number: %w", err)
	}

	now := s.now()
	seq, err := s.invoices.MaxMonthSequence(ctx, now.Month(), now.Year())
	if err != nil {
		return nil, fmt.Errorf("allocating invoice number: %w", err)
	}
	invoiceNumber := FormatInvoiceNumber(seq+1, now.Month(), now.Year())

	issue := now
	if in.IssueDate != nil {
		issue = *in.IssueDate
	}
	due := issue.AddDate(0, 0, 30)
	if in.DueDate != nil {
		due = *in.DueDate
	}

	currency := in.Currency
	if currency == "" {
		currency = "EUR"
	}

	invoice := &domain.Invoice{
		FileNumber:    fileNumber,
		InvoiceNumber: invoiceNumber,
		ClientID:      in.ClientID,
		Description:   in.Description,
		Amount:        in.Amount,
		Currency:      currency,
		IssueDate:     issue,
		DueDate:       due,
		WorkDates:     in.WorkDates,
		Status:        domain.InvoiceStatusDraft,
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("creating invoice: %w", err)
	}
	return invoice, nil
}

// FormatInvoiceNumber renders the monthly-scoped invoice number SEQ/MM/YYYY
// with the sequence zero-padded to two digits.
func FormatInvoiceNumber(seq int, month time.Month, year int) string {
	return fmt.Sprintf("%02d/%02d/%d", seq, int(month), year)
}

func (s *invoiceService) Get(ctx context.Context, id int64) (*domain.InvoiceWithClient, error) {
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.GetByID(ctx, invoice.ClientID)
	if err != nil {
		return nil, err
	}
	return &domain.InvoiceWithClient{Invoice: *invoice, Client: *client}, nil
}

func (s *invoiceService) GetWithLedger(ctx context.Context, id int64) (*domain.InvoiceWithLedger, error) {
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	paid, err := s.payments.SumByInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, fmt.Errorf("summing payments: %w", err)
	}
	return &domain.InvoiceWithLedger{
		Invoice:       *invoice,
		InvoiceLedger: domain.NewInvoiceLedger(invoice.Amount, paid),
	}, nil
}

func (s *invoiceService) List(ctx context.Context, filter port.InvoiceFilter) ([]domain.InvoiceWithClient, error) {
	return s.invoices.List(ctx, filter)
}

func (s *invoiceService) ListWithLedger(ctx context.Context, filter port.InvoiceFilter) ([]domain.InvoiceWithLedger, error) {
	invoices, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]domain.InvoiceWithLedger, 0, len(invoices))
	for i := range invoices {
		paid, err := s.payments.SumByInvoice(ctx, invoices[i].ID)
		if err != nil {
			return nil, fmt.Errorf("summing payments for invoice %d: %w", invoices[i].ID, err)
		}
		out = append(out, domain.InvoiceWithLedger{
			Invoice:       invoices[i].Invoice,
			InvoiceLedger: domain.NewInvoiceLedger(invoices[i].Amount, paid),
		})
	}
	return out, nil
}

func (s *invoiceService) Update(ctx context.Context, id int64, update port.InvoiceUpdate) (*domain.Invoice, error) {
	if update.IsEmpty() {
		return nil, domain.NewMissingFieldsError("amount, description or status")
	}
	if update.Amount != nil && !update.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if update.Status != nil && !domain.ValidInvoiceStatuses[*update.Status] {
		return nil, domain.ErrInvalidStatus
	}
	if err := s.invoices.Update(ctx, id, update); err != nil {
		return nil, err
	}
	return s.invoices.GetByID(ctx, id)
}

func (s *invoiceService) MarkSent(ctx context.Context, id int64) error {
	return s.invoices.UpdateStatus(ctx, id, domain.InvoiceStatusSent, s.now())
}

func (s *invoiceService) MarkPaid(ctx context.Context, id int64) error {
	return s.invoices.UpdateStatus(ctx, id, domain.InvoiceStatusPaid, s.now())
}

func (s *invoiceService) Delete(ctx context.Context, id int64) error {
	return s.invoices.Delete(ctx, id)
}
