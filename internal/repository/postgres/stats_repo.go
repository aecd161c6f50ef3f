package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"faktura/internal/domain"
	"faktura/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

const invoiceStatsQuery = `SELECT
	COUNT(*) AS total_invoices,
	COUNT(CASE WHEN i.status = 'draft' THEN 1 END) AS draft_count,
	COUNT(CASE WHEN i.status = 'sent' THEN 1 END) AS sent_count,
	COUNT(CASE WHEN i.status = 'paid' THEN 1 END) AS paid_count,
	COALESCE(SUM(i.amount), 0) AS total_amount,
	COALESCE(SUM(p.paid), 0) AS total_paid
FROM invoices i
LEFT JOIN (SELECT invoice_id, SUM(amount) AS paid FROM payments GROUP BY invoice_id) p
	ON p.invoice_id = i.id`

type statsRow struct {
	TotalInvoices int             `db:"total_invoices"`
	DraftCount    int             `db:"draft_count"`
	SentCount     int             `db:"sent_count"`
	PaidCount     int             `db:"paid_count"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	TotalPaid     decimal.Decimal `db:"total_paid"`
}

type clientTotalRow struct {
	Name  string          `db:"name"`
	Total decimal.Decimal `db:"total"`
}

func (r *statsRepo) GetStats(ctx context.Context) (*domain.Stats, error) {
	var row statsRow
	if err := r.db.GetContext(ctx, &row, invoiceStatsQuery); err != nil {
		return nil, fmt.Errorf("statsRepo.GetStats invoices: %w", err)
	}

	var byClient []clientTotalRow
	err := r.db.SelectContext(ctx, &byClient,
		`SELECT c.name, COALESCE(SUM(i.amount), 0) AS total
		 FROM clients c INNER JOIN invoices i ON i.client_id = c.id
		 GROUP BY c.name ORDER BY total DESC`)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.GetStats by client: %w", err)
	}

	stats := &domain.Stats{
		TotalInvoices: row.TotalInvoices,
		DraftCount:    row.DraftCount,
		SentCount:     row.SentCount,
		PaidCount:     row.PaidCount,
		TotalAmount:   row.TotalAmount,
		TotalPaid:     row.TotalPaid,
		TotalDue:      row.TotalAmount.Sub(row.TotalPaid),
		TotalByClient: make(map[string]decimal.Decimal, len(byClient)),
	}
	for _, c := range byClient {
		stats.TotalByClient[c.Name] = c.Total
	}
	return stats, nil
}
