package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Client represents a billable client in the directory.
type Client struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Address       string    `db:"address" json:"address"`
	CompanyID     string    `db:"company_id" json:"company_id"`
	Email         string    `db:"email" json:"email"`
	ContactPerson string    `db:"contact_person" json:"contact_person"`
	Phone         string    `db:"phone" json:"phone"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Invoice represents a single outgoing invoice.
// FileNumber is a global sequential counter; InvoiceNumber is the formatted
// SEQ/MM/YYYY number whose sequence restarts every calendar month.
type Invoice struct {
	ID            int64           `db:"id" json:"id"`
	FileNumber    int64           `db:"file_number" json:"file_number"`
	InvoiceNumber string          `db:"invoice_number" json:"invoice_number"`
	ClientID      int64           `db:"client_id" json:"client_id"`
	Description   string          `db:"description" json:"description"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Currency      string          `db:"currency" json:"currency"`
	IssueDate     time.Time       `db:"issue_date" json:"issue_date"`
	DueDate       time.Time       `db:"due_date" json:"due_date"`
	WorkDates     string          `db:"work_dates" json:"work_dates"`
	Status        InvoiceStatus   `db:"status" json:"status"`
	PDFKey        string          `db:"pdf_key" json:"pdf_key"`
	SentAt        *time.Time      `db:"sent_at" json:"sent_at"`
	PaidAt        *time.Time      `db:"paid_at" json:"paid_at"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// InvoiceWithClient carries an invoice together with its client record.
type InvoiceWithClient struct {
	Invoice
	Client Client `json:"client"`
}

// Payment represents a payment recorded against an invoice.
// Payments are immutable once created except for deletion.
type Payment struct {
	ID        int64           `db:"id" json:"id"`
	InvoiceID int64           `db:"invoice_id" json:"invoice_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Currency  string          `db:"currency" json:"currency"`
	Date      time.Time       `db:"date" json:"date"`
	Method    string          `db:"method" json:"method"`
	Notes     string          `db:"notes" json:"notes"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// InvoiceLedger holds an invoice's derived payment figures.
type InvoiceLedger struct {
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
}

// NewInvoiceLedger derives the ledger figures for an invoice from the sum of
// its payments. AmountDue is floored at zero; PaymentStatus is a pure
// function of amount and amount paid.
func NewInvoiceLedger(amount, amountPaid decimal.Decimal) InvoiceLedger {
	due := amount.Sub(amountPaid)
	if due.IsNegative() {
		due = decimal.Zero
	}
	status := PaymentStatusPartial
	switch {
	case due.Equal(amount):
		status = PaymentStatusUnpaid
	case due.IsZero():
		status = PaymentStatusPaid
	}
	return InvoiceLedger{AmountPaid: amountPaid, AmountDue: due, PaymentStatus: status}
}

// InvoiceWithLedger is an invoice annotated with its derived payment figures.
type InvoiceWithLedger struct {
	Invoice
	InvoiceLedger
}

// Stats holds aggregate dashboard figures.
type Stats struct {
	TotalInvoices int                        `json:"total_invoices"`
	DraftCount    int                        `json:"draft_count"`
	SentCount     int                        `json:"sent_count"`
	PaidCount     int                        `json:"paid_count"`
	TotalAmount   decimal.Decimal            `json:"total_amount"`
	TotalPaid     decimal.Decimal            `json:"total_paid"`
	TotalDue      decimal.Decimal            `json:"total_due"`
	TotalByClient map[string]decimal.Decimal `json:"total_by_client"`
	ClientCount   int                        `json:"client_count"`
}

// EmailLog records one attempt to deliver an invoice by email.
type EmailLog struct {
	ID           int64     `db:"id" json:"id"`
	InvoiceID    int64     `db:"invoice_id" json:"invoice_id"`
	Recipient    string    `db:"recipient" json:"recipient"`
	Subject      string    `db:"subject" json:"subject"`
	Status       string    `db:"status" json:"status"`
	ErrorMessage string    `db:"error_message" json:"error_message"`
	SentAt       time.Time `db:"sent_at" json:"sent_at"`
}

// AuditEntry records a mutation for the audit trail. Writes are best-effort
// and must never block or fail the mutation they describe.
type AuditEntry struct {
	ID         string          `db:"id" json:"id"`
	Action     string          `db:"action" json:"action"`
	EntityType string          `db:"entity_type" json:"entity_type"`
	EntityID   string          `db:"entity_id" json:"entity_id"`
	Details    json.RawMessage `db:"details" json:"details"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}
