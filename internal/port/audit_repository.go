package port

import (
	"context"

	"faktura/internal/domain"
)

// AuditRepository persists the audit trail of mutations.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
}
