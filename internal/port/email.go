package port

import "context"

// OutboundEmail is a single message with an optional attachment.
type OutboundEmail struct {
	To             string
	Subject        string
	Body           string
	Attachment     []byte
	AttachmentName string
	AttachmentType string
}

// EmailSender defines the contract for sending invoice emails.
type EmailSender interface {
	Send(ctx context.Context, msg OutboundEmail) error
}
