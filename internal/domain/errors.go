package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrClientNotFound    = errors.New("client not found")
	ErrInvoiceNotFound   = errors.New("invoice not found")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrAmbiguousClient   = errors.New("client name matches multiple clients")
	ErrDuplicateClient   = errors.New("client with this name already exists")
	ErrClientHasInvoices = errors.New("client has invoices and cannot be deleted")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrOverpayment       = errors.New("payment amount exceeds remaining amount due")
	ErrInvalidStatus     = errors.New("invalid invoice status")
	ErrNothingPending    = errors.New("no pending action for this conversation")
	ErrRateLimited       = errors.New("too many requests")
)

// MissingFieldsError reports which required fields a write action lacks.
// It is a client-fixable validation failure, never an internal error.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// NewMissingFieldsError creates a MissingFieldsError for the given fields.
func NewMissingFieldsError(fields ...string) *MissingFieldsError {
	return &MissingFieldsError{Fields: fields}
}

// IsMissingFields reports whether err is a MissingFieldsError.
func IsMissingFields(err error) bool {
	var mfe *MissingFieldsError
	return errors.As(err, &mfe)
}
