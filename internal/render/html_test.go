package render_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faktura/internal/config"
	"faktura/internal/domain"
	"faktura/internal/render"
)

func testCompany() config.CompanyConfig {
	return config.CompanyConfig{
		Name:        "Nowak Bau",
		Address:     "Hauptstrasse 5\n53111 Bonn",
		TaxID:       "DE123456789",
		BankName:    "Sparkasse Bonn",
		BankAccount: "DE02 1203 0000 0000 2020 51",
	}
}

func testInvoice() (*domain.Invoice, *domain.Client) {
	invoice := &domain.Invoice{
		ID:            1,
		InvoiceNumber: "03/06/2026",
		Description:   "Fliesenarbeiten Juni",
		Amount:        decimal.NewFromFloat(2500.50),
		Currency:      "EUR",
		IssueDate:     time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC),
	}
	client := &domain.Client{
		Name:      "Bauceram GmbH",
		Address:   "Am Hang 2\n53347 Alfter",
		CompanyID: "DE306313681",
	}
	return invoice, client
}

func TestInvoiceHTML(t *testing.T) {
	invoice, client := testInvoice()

	html, err := render.InvoiceHTML(testCompany(), invoice, client)
	require.NoError(t, err)

	assert.Contains(t, html, "FAKTURA")
	assert.Contains(t, html, "03/06/2026")
	assert.Contains(t, html, "Bauceram GmbH")
	assert.Contains(t, html, "Fliesenarbeiten Juni")
	assert.Contains(t, html, "EUR 2500.50")
	assert.Contains(t, html, "03.06.2026")
	assert.Contains(t, html, "03.07.2026")
	assert.Contains(t, html, "DE02 1203 0000 0000 2020 51")
}

func TestInvoiceHTML_MultilineAddressBecomesBreaks(t *testing.T) {
	invoice, client := testInvoice()

	html, err := render.InvoiceHTML(testCompany(), invoice, client)
	require.NoError(t, err)

	assert.Contains(t, html, "Am Hang 2<br>53347 Alfter")
}

func TestInvoiceHTML_EscapesMarkup(t *testing.T) {
	invoice, client := testInvoice()
	invoice.Description = `<script>alert("x")</script>`

	html, err := render.InvoiceHTML(testCompany(), invoice, client)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
}
