package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"faktura/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"File Number",
	"Invoice Number",
	"Client",
	"Description",
	"Amount",
	"Currency",
	"Issue Date",
	"Due Date",
	"Status",
	"Amount Paid",
	"Amount Due",
	"Payment Status",
	"Work Dates",
	"Sent At",
	"Paid At",
}

// Writer wraps csv.Writer for exporting the invoice ledger as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteInvoices converts ledger-annotated invoices to CSV rows and writes
// them. clientNames maps client ids to display names.
func (w *Writer) WriteInvoices(invoices []domain.InvoiceWithLedger, clientNames map[int64]string) error {
	for i := range invoices {
		row := invoiceToRow(&invoices[i], clientNames)
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func invoiceToRow(in *domain.InvoiceWithLedger, clientNames map[int64]string) []string {
	row := make([]string, len(columns))
	row[0] = strconv.FormatInt(in.FileNumber, 10)
	row[1] = in.InvoiceNumber
	row[2] = clientNames[in.ClientID]
	row[3] = in.Description
	row[4] = in.Amount.StringFixed(2)
	row[5] = in.Currency
	row[6] = in.IssueDate.Format("2006-01-02")
	row[7] = in.DueDate.Format("2006-01-02")
	row[8] = string(in.Status)
	row[9] = in.AmountPaid.StringFixed(2)
	row[10] = in.AmountDue.StringFixed(2)
	row[11] = string(in.PaymentStatus)
	row[12] = in.WorkDates
	row[13] = formatTime(in.SentAt)
	row[14] = formatTime(in.PaidAt)
	return row
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_name}_{YYYY-MM-DD}.csv
func BuildFilename(name string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}
