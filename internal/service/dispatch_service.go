package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"faktura/internal/domain"
	"faktura/internal/port"
)

// emailTemplate holds a localized invoice email subject and body.
type emailTemplate struct {
	subject string
	body    string
}

// Invoice email templates. The accountant copies always go out in Polish;
// clients and extra recipients get the German template unless overridden.
var emailTemplates = map[string]emailTemplate{
	"de": {
		subject: "Rechnung %s - %s %s",
		body: "Sehr geehrte Damen und Herren,\n\n" +
			"anbei erhalten Sie die Rechnung für:\n%s\n\n" +
			"Bei Fragen stehen wir Ihnen gerne zur Verfügung.\n\n" +
			"Mit freundlichen Grüßen,\n%s\n",
	},
	"pl": {
		subject: "Faktura %s - %s %s",
		body: "Szanowni Państwo,\n\n" +
			"w załączeniu przesyłam fakturę za:\n%s\n\n" +
			"W razie pytań pozostaję do dyspozycji.\n\n" +
			"Z poważaniem,\n%s\n",
	},
	"en": {
		subject: "Invoice %s - %s %s",
		body: "Dear Sir or Madam,\n\n" +
			"Please find attached the invoice for:\n%s\n\n" +
			"If you have any questions, please don't hesitate to contact us.\n\n" +
			"Best regards,\n%s\n",
	},
}

// SendInvoiceInput carries per-send overrides for an invoice dispatch.
type SendInvoiceInput struct {
	InvoiceID            int64
	AdditionalRecipients []string
	CustomSubject        string
	CustomBody           string
}

// RecipientResult reports the outcome for one recipient.
type RecipientResult struct {
	Recipient string `json:"recipient"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// DispatchResult summarizes one invoice send.
type DispatchResult struct {
	Results       []RecipientResult    `json:"results"`
	SuccessCount  int                  `json:"success_count"`
	FailureCount  int                  `json:"failure_count"`
	InvoiceStatus domain.InvoiceStatus `json:"invoice_status"`
}

// DispatchConfig holds the fixed dispatch settings.
type DispatchConfig struct {
	SenderName     string
	CopyRecipients []string // accountant addresses, always included
	ArchiveBucket  string
}

// DispatchService renders an invoice, archives the document, emails it to
// the client plus the fixed accountant copies, and logs every attempt.
// Archive and log failures never block or reverse the send.
type DispatchService interface {
	SendInvoice(ctx context.Context, in SendInvoiceInput) (*DispatchResult, error)
	EmailLogs(ctx context.Context, invoiceID int64) ([]domain.EmailLog, error)
}

type dispatchService struct {
	invoices InvoiceService
	renderer port.DocumentRenderer
	sender   port.EmailSender
	logs     port.EmailLogRepository
	storage  port.ObjectStorage
	invRepo  port.InvoiceRepository
	audit    *AuditRecorder
	cfg      DispatchConfig
}

// NewDispatchService creates a new DispatchService implementation. storage
// may be nil when no archive is configured.
func NewDispatchService(
	invoices InvoiceService,
	renderer port.DocumentRenderer,
	sender port.EmailSender,
	logs port.EmailLogRepository,
	storage port.ObjectStorage,
	invRepo port.InvoiceRepository,
	audit *AuditRecorder,
	cfg DispatchConfig,
) DispatchService {
	return &dispatchService{
		invoices: invoices,
		renderer: renderer,
		sender:   sender,
		logs:     logs,
		storage:  storage,
		invRepo:  invRepo,
		audit:    audit,
		cfg:      cfg,
	}
}

func (s *dispatchService) SendInvoice(ctx context.Context, in SendInvoiceInput) (*DispatchResult, error) {
	invoice, err := s.invoices.Get(ctx, in.InvoiceID)
	if err != nil {
		return nil, err
	}

	doc, err := s.renderer.Render(ctx, &invoice.Invoice, &invoice.Client)
	if err != nil {
		return nil, fmt.Errorf("rendering invoice %s: %w", invoice.InvoiceNumber, err)
	}

	s.archive(ctx, &invoice.Invoice, doc)

	type recipient struct {
		address string
		lang    string
	}
	var recipients []recipient
	for _, addr := range s.cfg.CopyRecipients {
		recipients = append(recipients, recipient{address: addr, lang: "pl"})
	}
	if invoice.Client.Email != "" {
		recipients = append(recipients, recipient{address: invoice.Client.Email, lang: "de"})
	}
	for _, addr := range in.AdditionalRecipients {
		if strings.TrimSpace(addr) != "" {
			recipients = append(recipients, recipient{address: addr, lang: "de"})
		}
	}

	result := &DispatchResult{InvoiceStatus: invoice.Status}
	for _, r := range recipients {
		subject, body := s.compose(&invoice.Invoice, r.lang, in.CustomSubject, in.CustomBody)
		sendErr := s.sender.Send(ctx, port.OutboundEmail{
			To:             r.address,
			Subject:        subject,
			Body:           body,
			Attachment:     doc.Content,
			AttachmentName: doc.FileName,
			AttachmentType: doc.ContentType,
		})

		rr := RecipientResult{Recipient: r.address, Success: sendErr == nil}
		if sendErr != nil {
			rr.Error = sendErr.Error()
			result.FailureCount++
			log.Printf("dispatch: send to %s failed: %v", r.address, sendErr)
		} else {
			result.SuccessCount++
		}
		result.Results = append(result.Results, rr)

		s.logAttempt(ctx, invoice.ID, r.address, subject, sendErr)
	}

	if result.SuccessCount > 0 && invoice.Status == domain.InvoiceStatusDraft {
		if err := s.invoices.MarkSent(ctx, invoice.ID); err != nil {
			log.Printf("dispatch: marking invoice %d sent: %v", invoice.ID, err)
		} else {
			result.InvoiceStatus = domain.InvoiceStatusSent
		}
	}

	action := "email_sent"
	if result.SuccessCount == 0 {
		action = "email_send_failed"
	}
	s.audit.Record(action, "invoice", strconv.FormatInt(invoice.ID, 10), map[string]any{
		"invoice_number": invoice.InvoiceNumber,
		"recipients":     len(recipients),
		"succeeded":      result.SuccessCount,
	})

	return result, nil
}

func (s *dispatchService) EmailLogs(ctx context.Context, invoiceID int64) ([]domain.EmailLog, error) {
	if _, err := s.invoices.Get(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.logs.ListByInvoice(ctx, invoiceID)
}

func (s *dispatchService) compose(invoice *domain.Invoice, lang, customSubject, customBody string) (string, string) {
	tpl, ok := emailTemplates[lang]
	if !ok {
		tpl = emailTemplates["en"]
	}
	subject := fmt.Sprintf(tpl.subject, invoice.InvoiceNumber, invoice.Currency, invoice.Amount.StringFixed(2))
	if customSubject != "" {
		subject = customSubject
	}
	body := fmt.Sprintf(tpl.body, invoice.Description, s.cfg.SenderName)
	if customBody != "" {
		body = customBody
	}
	return subject, body
}

// archive uploads the rendered document to object storage and records the
// key on the invoice. Best effort: failures are logged only.
func (s *dispatchService) archive(ctx context.Context, invoice *domain.Invoice, doc *port.RenderResult) {
	if s.storage == nil || s.cfg.ArchiveBucket == "" {
		return
	}
	key := fmt.Sprintf("invoices/%d/%s", invoice.IssueDate.Year(), doc.FileName)
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.ArchiveBucket,
		Key:         key,
		Body:        bytes.NewReader(doc.Content),
		ContentType: doc.ContentType,
		Size:        int64(len(doc.Content)),
	})
	if err != nil {
		log.Printf("dispatch: archiving %s: %v", doc.FileName, err)
		return
	}
	if err := s.invRepo.SetPDFKey(ctx, invoice.ID, key); err != nil {
		log.Printf("dispatch: recording archive key for invoice %d: %v", invoice.ID, err)
	}
}

func (s *dispatchService) logAttempt(ctx context.Context, invoiceID int64, recipient, subject string, sendErr error) {
	entry := &domain.EmailLog{
		InvoiceID: invoiceID,
		Recipient: recipient,
		Subject:   subject,
		Status:    "SUCCESS",
		SentAt:    time.Now().UTC(),
	}
	if sendErr != nil {
		entry.Status = "FAILED"
		entry.ErrorMessage = sendErr.Error()
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		log.Printf("dispatch: email log write failed: %v", err)
	}
}
