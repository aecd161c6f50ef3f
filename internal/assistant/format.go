package assistant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"faktura/internal/domain"
)

// Chat-facing formatting of record data. Every function here is pure: the
// gate fetches, these render.

// FormatClients renders the client directory as a numbered list.
func FormatClients(clients []domain.Client) string {
	if len(clients) == 0 {
		return "You have no clients yet. Say something like \"add client Bauceram GmbH\" to create one."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d client(s):\n", len(clients))
	for i, c := range clients {
		fmt.Fprintf(&b, "%d. %s", i+1, c.Name)
		var extras []string
		if c.Email != "" {
			extras = append(extras, c.Email)
		}
		if c.ContactPerson != "" {
			extras = append(extras, c.ContactPerson)
		}
		if len(extras) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(extras, ", "))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatInvoices renders a ledger-annotated invoice list, most useful data
// first: number, client, amount, paid/due, status.
func FormatInvoices(invoices []domain.InvoiceWithLedger, clientNames map[int64]string) string {
	if len(invoices) == 0 {
		return "No invoices found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d invoice(s):\n", len(invoices))
	for _, in := range invoices {
		name := clientNames[in.ClientID]
		if name == "" {
			name = fmt.Sprintf("client #%d", in.ClientID)
		}
		fmt.Fprintf(&b, "- #%d %s | %s | %s %s | paid %s, due %s | %s\n",
			in.ID, in.InvoiceNumber, name,
			in.Amount.StringFixed(2), in.Currency,
			in.AmountPaid.StringFixed(2), in.AmountDue.StringFixed(2),
			in.PaymentStatus)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatPayments renders a payment list for one or more invoices.
func FormatPayments(payments []domain.Payment) string {
	if len(payments) == 0 {
		return "No payments recorded."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d payment(s):\n", len(payments))
	for _, p := range payments {
		fmt.Fprintf(&b, "- %s %s on %s for invoice #%d",
			p.Amount.StringFixed(2), p.Currency, p.Date.Format("2006-01-02"), p.InvoiceID)
		if p.Method != "" {
			fmt.Fprintf(&b, " (%s)", p.Method)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatBalance renders the open-balance view: unpaid and partially paid
// invoices with their outstanding amounts and a total.
func FormatBalance(invoices []domain.InvoiceWithLedger, clientNames map[int64]string) string {
	var open []domain.InvoiceWithLedger
	total := decimal.Zero
	for _, in := range invoices {
		if in.AmountDue.IsPositive() {
			open = append(open, in)
			total = total.Add(in.AmountDue)
		}
	}
	if len(open) == 0 {
		return "All invoices are fully paid. Nothing outstanding."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d invoice(s) with an open balance:\n", len(open))
	currency := ""
	for _, in := range open {
		name := clientNames[in.ClientID]
		if name == "" {
			name = fmt.Sprintf("client #%d", in.ClientID)
		}
		fmt.Fprintf(&b, "- #%d %s | %s | %s %s outstanding\n",
			in.ID, in.InvoiceNumber, name, in.AmountDue.StringFixed(2), in.Currency)
		currency = in.Currency
	}
	fmt.Fprintf(&b, "Total outstanding: %s %s", total.StringFixed(2), currency)
	return b.String()
}

// FormatStats renders the dashboard aggregates.
func FormatStats(stats *domain.Stats) string {
	var b strings.Builder
	b.WriteString("Business overview:\n")
	fmt.Fprintf(&b, "- Clients: %d\n", stats.ClientCount)
	fmt.Fprintf(&b, "- Invoices: %d (draft %d, sent %d, paid %d)\n",
		stats.TotalInvoices, stats.DraftCount, stats.SentCount, stats.PaidCount)
	fmt.Fprintf(&b, "- Invoiced: %s\n", stats.TotalAmount.StringFixed(2))
	fmt.Fprintf(&b, "- Received: %s\n", stats.TotalPaid.StringFixed(2))
	fmt.Fprintf(&b, "- Outstanding: %s", stats.TotalDue.StringFixed(2))
	if len(stats.TotalByClient) > 0 {
		names := make([]string, 0, len(stats.TotalByClient))
		for name := range stats.TotalByClient {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			return stats.TotalByClient[names[i]].GreaterThan(stats.TotalByClient[names[j]])
		})
		b.WriteString("\nBy client:")
		for _, name := range names {
			fmt.Fprintf(&b, "\n- %s: %s", name, stats.TotalByClient[name].StringFixed(2))
		}
	}
	return b.String()
}

// FormatInvoiceLinks renders preview and download links for an invoice
// document request.
func FormatInvoiceLinks(invoice *domain.InvoiceWithClient) string {
	return fmt.Sprintf("Invoice %s for %s (%s %s):\n- Preview: /api/v1/invoices/%d/preview\n- Download: /api/v1/invoices/%d/preview?download=true",
		invoice.InvoiceNumber, invoice.Client.Name,
		invoice.Amount.StringFixed(2), invoice.Currency,
		invoice.ID, invoice.ID)
}

// FormatConfirmation builds the deterministic field-by-field summary shown
// before a write action executes.
func FormatConfirmation(kind ActionKind, fields Fields) string {
	var b strings.Builder
	switch kind {
	case ActionCreateInvoice:
		d := fields.Invoice
		b.WriteString("Please confirm the new invoice:\n")
		fmt.Fprintf(&b, "- Client: %s\n", d.ClientName)
		fmt.Fprintf(&b, "- Amount: %s %s\n", d.Amount.StringFixed(2), orDefault(d.Currency, "EUR"))
		fmt.Fprintf(&b, "- Description: %s\n", d.Description)
		if d.WorkDates != "" {
			fmt.Fprintf(&b, "- Work dates: %s\n", d.WorkDates)
		}
	case ActionRecordPayment:
		d := fields.Payment
		b.WriteString("Please confirm the payment:\n")
		fmt.Fprintf(&b, "- Client: %s\n", d.ClientName)
		fmt.Fprintf(&b, "- Amount: %s %s\n", d.Amount.StringFixed(2), orDefault(d.Currency, "invoice currency"))
		fmt.Fprintf(&b, "- Invoice: #%d\n", d.InvoiceID)
		if d.Date != "" {
			fmt.Fprintf(&b, "- Date: %s\n", d.Date)
		}
		if d.Method != "" {
			fmt.Fprintf(&b, "- Method: %s\n", d.Method)
		}
	case ActionAddClient:
		d := fields.Client
		b.WriteString("Please confirm the new client:\n")
		fmt.Fprintf(&b, "- Name: %s\n", d.ClientName)
		if d.Address != "" {
			fmt.Fprintf(&b, "- Address: %s\n", d.Address)
		}
		if d.CompanyID != "" {
			fmt.Fprintf(&b, "- Company ID: %s\n", d.CompanyID)
		}
		if d.Email != "" {
			fmt.Fprintf(&b, "- Email: %s\n", d.Email)
		}
		if d.ContactPerson != "" {
			fmt.Fprintf(&b, "- Contact: %s\n", d.ContactPerson)
		}
		if d.Phone != "" {
			fmt.Fprintf(&b, "- Phone: %s\n", d.Phone)
		}
	case ActionEditInvoice:
		d := fields.Edit
		fmt.Fprintf(&b, "Please confirm the changes to invoice #%d:\n", d.InvoiceID)
		if d.Amount != nil {
			fmt.Fprintf(&b, "- Amount: %s\n", d.Amount.StringFixed(2))
		}
		if d.Description != nil {
			fmt.Fprintf(&b, "- Description: %s\n", *d.Description)
		}
		if d.Status != nil {
			fmt.Fprintf(&b, "- Status: %s\n", *d.Status)
		}
	default:
		return ""
	}
	b.WriteString("Reply \"yes\" to confirm or \"no\" to cancel.")
	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
