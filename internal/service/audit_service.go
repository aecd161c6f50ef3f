package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"faktura/internal/domain"
	"faktura/internal/port"
)

// AuditRecorder writes the audit trail after mutations. Writes are
// fire-and-forget: they run on their own goroutine with a bounded timeout
// and a failed write is logged, never surfaced to the caller.
type AuditRecorder struct {
	repo port.AuditRepository
}

// NewAuditRecorder creates an AuditRecorder backed by the given repository.
func NewAuditRecorder(repo port.AuditRepository) *AuditRecorder {
	return &AuditRecorder{repo: repo}
}

// Record logs an action asynchronously. Known actions: invoice_created,
// invoice_edited, invoice_deleted, payment_recorded, payment_deleted,
// client_added, client_deleted, email_sent, email_send_failed.
func (a *AuditRecorder) Record(action, entityType, entityID string, details map[string]any) {
	if a == nil || a.repo == nil {
		return
	}

	var detailsJSON json.RawMessage
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			log.Printf("audit: marshaling details for %s: %v", action, err)
		} else {
			detailsJSON = b
		}
	}

	entry := &domain.AuditEntry{
		ID:         uuid.New().String(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    detailsJSON,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.repo.Create(ctx, entry); err != nil {
			log.Printf("audit: write failed (%s): %v", action, err)
		}
	}()
}
