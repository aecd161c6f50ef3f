// Command importsheet imports legacy invoices from a bookkeeping
// spreadsheet export into the database. Rows whose file number already
// exists are skipped, so the import is safe to re-run.
// Usage: go run ./cmd/importsheet invoices.xlsx
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"faktura/internal/config"
	"faktura/internal/domain"
	"faktura/internal/repository/postgres"
)

const sheetName = "Database"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: importsheet <file.xlsx>")
	}
	xlsxPath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	if len(rows) < 2 {
		return fmt.Errorf("sheet %q has no data rows", sheetName)
	}

	clientRepo := postgres.NewClientRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)
	ctx := context.Background()

	clients, err := clientRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading clients: %w", err)
	}
	byName := make(map[string]*domain.Client, len(clients))
	for i := range clients {
		byName[strings.ToLower(clients[i].Name)] = &clients[i]
	}

	header := columnIndex(rows[0])
	imported, skipped := 0, 0
	var rowErrs []string

	for _, row := range rows[1:] {
		fileNum, err := strconv.ParseInt(cell(row, header, "File #"), 10, 64)
		if err != nil || fileNum == 0 {
			continue
		}

		if _, err := invoiceRepo.GetByFileNumber(ctx, fileNum); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, domain.ErrInvoiceNotFound) {
			return fmt.Errorf("checking file number %d: %w", fileNum, err)
		}

		clientName := cell(row, header, "Client")
		client := byName[strings.ToLower(clientName)]
		if client == nil {
			rowErrs = append(rowErrs, fmt.Sprintf("row %d: unknown client %q", fileNum, clientName))
			continue
		}

		amount, err := decimal.NewFromString(cell(row, header, "Amount"))
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("row %d: bad amount: %v", fileNum, err))
			continue
		}

		currency := cell(row, header, "Currency")
		if currency == "" {
			currency = "EUR"
		}
		issueDate := parseDate(cell(row, header, "Issue Date"))
		if issueDate.IsZero() {
			issueDate = time.Now()
		}
		dueDate := parseDate(cell(row, header, "Due Date"))
		if dueDate.IsZero() {
			dueDate = issueDate.AddDate(0, 0, 30)
		}
		invoiceNumber := cell(row, header, "Invoice Number")
		if invoiceNumber == "" {
			invoiceNumber = fmt.Sprintf("%02d/%02d/%d", fileNum, int(issueDate.Month()), issueDate.Year())
		}

		inv := &domain.Invoice{
			FileNumber:    fileNum,
			InvoiceNumber: invoiceNumber,
			ClientID:      client.ID,
			Description:   cell(row, header, "Description"),
			Amount:        amount,
			Currency:      currency,
			IssueDate:     issueDate,
			DueDate:       dueDate,
			// Legacy invoices were already delivered.
			Status: domain.InvoiceStatusSent,
		}
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("row %d: %v", fileNum, err))
			continue
		}
		imported++
		log.Printf("imported: invoice %s - %s - %s %s", inv.InvoiceNumber, clientName, currency, amount.StringFixed(2))
	}

	log.Printf("import complete: %d imported, %d skipped, %d errors", imported, skipped, len(rowErrs))
	for _, e := range rowErrs {
		log.Printf("  %s", e)
	}
	return nil
}

// columnIndex maps header names to column positions.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

func cell(row []string, header map[string]int, name string) string {
	i, ok := header[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseDate accepts DD.MM.YYYY and YYYY-MM-DD; returns zero time otherwise.
func parseDate(s string) time.Time {
	for _, layout := range []string{"02.01.2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
