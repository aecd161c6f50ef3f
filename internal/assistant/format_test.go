package assistant_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"faktura/internal/assistant"
	"faktura/internal/domain"
)

func TestFormatClients(t *testing.T) {
	out := assistant.FormatClients([]domain.Client{
		{ID: 1, Name: "Bauceram GmbH", Email: "info@bauceram.example"},
		{ID: 2, Name: "Clinker Bau Schweiz GmbH"},
	})
	assert.Contains(t, out, "You have 2 client(s):")
	assert.Contains(t, out, "1. Bauceram GmbH (info@bauceram.example)")
	assert.Contains(t, out, "2. Clinker Bau Schweiz GmbH")
}

func TestFormatClients_Empty(t *testing.T) {
	out := assistant.FormatClients(nil)
	assert.Contains(t, out, "no clients yet")
}

func TestFormatInvoices(t *testing.T) {
	invoices := []domain.InvoiceWithLedger{
		{
			Invoice: domain.Invoice{
				ID: 3, InvoiceNumber: "01/06/2026", ClientID: 1,
				Amount: decimal.NewFromInt(1000), Currency: "EUR",
			},
			InvoiceLedger: domain.NewInvoiceLedger(decimal.NewFromInt(1000), decimal.NewFromInt(400)),
		},
	}
	out := assistant.FormatInvoices(invoices, map[int64]string{1: "Bauceram GmbH"})
	assert.Contains(t, out, "- #3 01/06/2026 | Bauceram GmbH | 1000.00 EUR | paid 400.00, due 600.00 | partial")
}

func TestFormatInvoices_UnknownClientName(t *testing.T) {
	invoices := []domain.InvoiceWithLedger{
		{Invoice: domain.Invoice{ID: 1, ClientID: 42, Amount: decimal.NewFromInt(10)}},
	}
	out := assistant.FormatInvoices(invoices, nil)
	assert.Contains(t, out, "client #42")
}

func TestFormatBalance(t *testing.T) {
	invoices := []domain.InvoiceWithLedger{
		{
			Invoice:       domain.Invoice{ID: 1, InvoiceNumber: "01/06/2026", ClientID: 1, Amount: decimal.NewFromInt(500), Currency: "EUR"},
			InvoiceLedger: domain.NewInvoiceLedger(decimal.NewFromInt(500), decimal.Zero),
		},
		{
			Invoice:       domain.Invoice{ID: 2, InvoiceNumber: "02/06/2026", ClientID: 1, Amount: decimal.NewFromInt(300), Currency: "EUR"},
			InvoiceLedger: domain.NewInvoiceLedger(decimal.NewFromInt(300), decimal.NewFromInt(300)),
		},
	}
	out := assistant.FormatBalance(invoices, map[int64]string{1: "Bauceram GmbH"})
	assert.Contains(t, out, "1 invoice(s) with an open balance:")
	assert.Contains(t, out, "500.00 EUR outstanding")
	assert.Contains(t, out, "Total outstanding: 500.00 EUR")
	assert.NotContains(t, out, "02/06/2026")
}

func TestFormatBalance_AllPaid(t *testing.T) {
	invoices := []domain.InvoiceWithLedger{
		{
			Invoice:       domain.Invoice{ID: 1, Amount: decimal.NewFromInt(100)},
			InvoiceLedger: domain.NewInvoiceLedger(decimal.NewFromInt(100), decimal.NewFromInt(100)),
		},
	}
	out := assistant.FormatBalance(invoices, nil)
	assert.Equal(t, "All invoices are fully paid. Nothing outstanding.", out)
}

func TestFormatStats_SortsClientsByTotal(t *testing.T) {
	stats := &domain.Stats{
		ClientCount:   2,
		TotalInvoices: 5,
		TotalAmount:   decimal.NewFromInt(8000),
		TotalPaid:     decimal.NewFromInt(3000),
		TotalDue:      decimal.NewFromInt(5000),
		TotalByClient: map[string]decimal.Decimal{
			"Clinker Bau Schweiz GmbH": decimal.NewFromInt(5000),
			"Bauceram GmbH":            decimal.NewFromInt(3000),
		},
	}
	out := assistant.FormatStats(stats)
	assert.Contains(t, out, "- Invoiced: 8000.00")
	clinker := strings.Index(out, "Clinker")
	bauceram := strings.Index(out, "Bauceram")
	assert.True(t, clinker >= 0 && clinker < bauceram, "largest total should come first")
}

func TestFormatInvoiceLinks(t *testing.T) {
	invoice := &domain.InvoiceWithClient{
		Invoice: domain.Invoice{ID: 7, InvoiceNumber: "02/06/2026", Amount: decimal.NewFromInt(2500), Currency: "EUR"},
		Client:  domain.Client{Name: "Bauceram GmbH"},
	}
	out := assistant.FormatInvoiceLinks(invoice)
	assert.Contains(t, out, "/api/v1/invoices/7/preview")
	assert.Contains(t, out, "/api/v1/invoices/7/preview?download=true")
}

func TestFormatConfirmation_Invoice(t *testing.T) {
	amount := decimal.NewFromFloat(2500.50)
	out := assistant.FormatConfirmation(assistant.ActionCreateInvoice, assistant.Fields{
		Invoice: &assistant.InvoiceDraft{
			ClientName:  "Bauceram GmbH",
			Amount:      &amount,
			Description: "Fliesenarbeiten Juni",
		},
	})
	assert.Contains(t, out, "- Client: Bauceram GmbH")
	assert.Contains(t, out, "- Amount: 2500.50 EUR")
	assert.Contains(t, out, "- Description: Fliesenarbeiten Juni")
	assert.True(t, strings.HasSuffix(out, `Reply "yes" to confirm or "no" to cancel.`))
}

func TestFormatConfirmation_EditListsOnlyChangedFields(t *testing.T) {
	status := "paid"
	out := assistant.FormatConfirmation(assistant.ActionEditInvoice, assistant.Fields{
		Edit: &assistant.InvoiceEdit{InvoiceID: 4, Status: &status},
	})
	assert.Contains(t, out, "invoice #4")
	assert.Contains(t, out, "- Status: paid")
	assert.NotContains(t, out, "- Amount:")
	assert.NotContains(t, out, "- Description:")
}

func TestFormatConfirmation_ConversationalKindEmpty(t *testing.T) {
	assert.Equal(t, "", assistant.FormatConfirmation(assistant.ActionHelp, assistant.Fields{}))
}
