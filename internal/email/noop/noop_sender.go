package noop

import (
	"context"
	"log"

	"faktura/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs outgoing mail to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) Send(_ context.Context, msg port.OutboundEmail) error {
	log.Printf("[NOOP EMAIL] To %s, subject %q, attachment %s (%d bytes)",
		msg.To, msg.Subject, msg.AttachmentName, len(msg.Attachment))
	return nil
}
