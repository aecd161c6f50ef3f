package port

import (
	"context"

	"faktura/internal/domain"
)

// RenderResult is a rendered invoice document. ContentType is
// "application/pdf" when a PDF engine was available, "text/html" otherwise.
type RenderResult struct {
	Content     []byte
	ContentType string
	FileName    string
}

// DocumentRenderer turns an invoice and its client into a document.
type DocumentRenderer interface {
	Render(ctx context.Context, invoice *domain.Invoice, client *domain.Client) (*RenderResult, error)
}
