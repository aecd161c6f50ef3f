package render

import (
	"fmt"
	"html/template"
	"strings"

	"faktura/internal/config"
	"faktura/internal/domain"
)

// invoiceTemplate is the A4 invoice layout. The @page rule is honored by the
// PDF engine; plain browsers render the same document for previews.
const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Faktura</title>
    <style>
        @page { size: A4; margin: 20mm; }
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: Arial, Helvetica, sans-serif; font-size: 11px; line-height: 1.4; color: #000; background: white; }
        .faktura-title { text-align: center; font-size: 24px; font-weight: bold; margin: 30px 0; letter-spacing: 3px; }
        .invoice-table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        .invoice-table th { background-color: #3366AA; color: white; padding: 12px; text-align: left; font-weight: bold; border: 1px solid #3366AA; }
        .invoice-table th.amount-header { text-align: center; width: 120px; }
        .invoice-table td { padding: 12px; border: 1px solid #3366AA; vertical-align: top; }
        .invoice-table td.amount { text-align: right; white-space: nowrap; }
        .total-row { background-color: #D6E3F8; font-weight: bold; }
        .total-row td:first-child { text-align: right; }
        .empty-row td { height: 25px; }
    </style>
</head>
<body>
    <div class="faktura-title">FAKTURA</div>

    <table style="width: 100%; margin-bottom: 20px;">
        <tr>
            <td style="width: 60%; vertical-align: top;">
                <strong>{{.Company.Name}}</strong><br>
                {{.CompanyAddress}}<br>
                {{.Company.Phone}}<br>
                {{.Company.Email}}<br>
                NIP: {{.Company.TaxID}}
            </td>
            <td style="width: 40%; text-align: right; vertical-align: top;">
                <strong>NR FAKTURY {{.Invoice.InvoiceNumber}}</strong>
            </td>
        </tr>
    </table>

    <table style="width: 100%; margin-bottom: 20px;">
        <tr>
            <td style="width: 50%; vertical-align: top;">
                <strong>Nabywca:</strong><br>
                {{.Client.Name}}<br>
                {{.ClientAddress}}<br>
                {{.Client.CompanyID}}
            </td>
            <td style="width: 50%; vertical-align: top;">
                <strong>Platnosc:</strong> przelewem<br>
                <strong>Termin:</strong> {{.DueDate}}<br>
                <strong>Data Wystawienia Faktury:</strong> {{.IssueDate}}<br><br>
                {{.Company.BankName}}<br>
                IBAN: {{.Company.BankAccount}}
            </td>
        </tr>
    </table>

    <table class="invoice-table">
        <thead>
            <tr>
                <th>OPIS USLUGI</th>
                <th class="amount-header">SUMA</th>
            </tr>
        </thead>
        <tbody>
            <tr>
                <td>{{.Invoice.Description}}</td>
                <td class="amount">{{.FormattedAmount}}</td>
            </tr>
            <tr class="empty-row"><td></td><td></td></tr>
            <tr class="empty-row"><td></td><td></td></tr>
            <tr class="empty-row"><td></td><td></td></tr>
            <tr class="empty-row"><td></td><td></td></tr>
            <tr class="total-row">
                <td>RAZEM DO ZAPLATY</td>
                <td class="amount">{{.FormattedAmount}}</td>
            </tr>
        </tbody>
    </table>
</body>
</html>
`

var invoiceTpl = template.Must(template.New("invoice").Parse(invoiceTemplate))

type invoiceTemplateData struct {
	Company         config.CompanyConfig
	CompanyAddress  template.HTML
	Invoice         *domain.Invoice
	Client          *domain.Client
	ClientAddress   template.HTML
	IssueDate       string
	DueDate         string
	FormattedAmount string
}

// InvoiceHTML renders the invoice document as a standalone HTML page.
func InvoiceHTML(company config.CompanyConfig, invoice *domain.Invoice, client *domain.Client) (string, error) {
	data := invoiceTemplateData{
		Company:         company,
		CompanyAddress:  multiline(company.Address),
		Invoice:         invoice,
		Client:          client,
		ClientAddress:   multiline(client.Address),
		IssueDate:       invoice.IssueDate.Format("02.01.2006"),
		DueDate:         invoice.DueDate.Format("02.01.2006"),
		FormattedAmount: fmt.Sprintf("%s %s", invoice.Currency, invoice.Amount.StringFixed(2)),
	}

	var b strings.Builder
	if err := invoiceTpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering invoice template: %w", err)
	}
	return b.String(), nil
}

// multiline escapes a plain-text value and converts its line breaks to <br>.
func multiline(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}
