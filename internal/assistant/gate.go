package assistant

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"faktura/internal/domain"
	"faktura/internal/port"
	"faktura/internal/service"
)

// TurnResult is the chat-facing outcome of processing one user message.
type TurnResult struct {
	Reply                string     `json:"reply"`
	Kind                 ActionKind `json:"action_kind"`
	RequiresConfirmation bool       `json:"requires_confirmation"`
	PendingToken         string     `json:"pending_token,omitempty"`
	MissingFields        []string   `json:"missing_fields,omitempty"`
	ConversationID       string     `json:"conversation_id"`
}

// ConfirmResult is the outcome of executing a previously staged write.
type ConfirmResult struct {
	Reply string     `json:"reply"`
	Kind  ActionKind `json:"action_kind"`
}

// Gate sits between the extractor and the mutation layer. Read actions
// execute immediately; write actions are staged as pending and only execute
// on an explicit confirm. No model output ever reaches a service call
// without passing through here.
type Gate struct {
	extractor *Extractor
	store     *ConversationStore
	clients   service.ClientService
	invoices  service.InvoiceService
	payments  service.PaymentService
	stats     service.StatsService
	audit     *service.AuditRecorder
}

// NewGate wires the confirmation gate.
func NewGate(
	extractor *Extractor,
	store *ConversationStore,
	clients service.ClientService,
	invoices service.InvoiceService,
	payments service.PaymentService,
	stats service.StatsService,
	audit *service.AuditRecorder,
) *Gate {
	return &Gate{
		extractor: extractor,
		store:     store,
		clients:   clients,
		invoices:  invoices,
		payments:  payments,
		stats:     stats,
		audit:     audit,
	}
}

// ProcessTurn interprets one user message and either answers directly (read
// and conversational kinds) or stages a write action pending confirmation.
func (g *Gate) ProcessTurn(ctx context.Context, message, conversationID string) (*TurnResult, error) {
	roster, err := g.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading client roster: %w", err)
	}
	stats, err := g.stats.GetStats(ctx)
	if err != nil {
		// The prompt context is an enrichment, not a requirement.
		log.Printf("gate: stats context unavailable: %v", err)
		stats = nil
	}

	d := g.extractor.Extract(ctx, message, conversationID, roster, stats)

	switch {
	case d.Kind.IsRead():
		reply, err := g.executeRead(ctx, d, roster)
		if err != nil {
			return nil, err
		}
		return &TurnResult{Reply: reply, Kind: d.Kind, ConversationID: d.ConversationID}, nil

	case d.Kind.IsWrite():
		missing := d.Fields.MissingFields(d.Kind)
		if !d.Ready || len(missing) > 0 {
			if len(missing) == 0 {
				missing = d.MissingFields
			}
			return &TurnResult{
				Reply:          d.Reply,
				Kind:           d.Kind,
				MissingFields:  missing,
				ConversationID: d.ConversationID,
			}, nil
		}
		token := g.store.StorePending(d.ConversationID, d.Kind, d.Fields)
		return &TurnResult{
			Reply:                FormatConfirmation(d.Kind, d.Fields),
			Kind:                 d.Kind,
			RequiresConfirmation: true,
			PendingToken:         token,
			ConversationID:       d.ConversationID,
		}, nil
	}

	return &TurnResult{Reply: d.Reply, Kind: d.Kind, ConversationID: d.ConversationID}, nil
}

// ConfirmPending executes the staged write for a conversation. Exactly one
// mutation runs per confirm; a second confirm without a new staging returns
// domain.ErrNothingPending. When the record store rejects the mutation the
// pending action is re-staged so confirm can be retried.
func (g *Gate) ConfirmPending(ctx context.Context, conversationID string) (*ConfirmResult, error) {
	p := g.store.TakePending(conversationID)
	if p == nil {
		return nil, domain.ErrNothingPending
	}

	if missing := p.Fields.MissingFields(p.Kind); len(missing) > 0 {
		return nil, domain.NewMissingFieldsError(missing...)
	}

	reply, err := g.executeWrite(ctx, p, conversationID)
	if err != nil {
		g.store.StorePending(conversationID, p.Kind, p.Fields)
		return nil, err
	}

	g.store.Clear(conversationID)
	return &ConfirmResult{Reply: reply, Kind: p.Kind}, nil
}

// CancelPending drops the staged write for a conversation, if any.
func (g *Gate) CancelPending(conversationID string) bool {
	return g.store.TakePending(conversationID) != nil
}

// ClearConversation drops a conversation's history and pending action.
func (g *Gate) ClearConversation(conversationID string) {
	g.store.Clear(conversationID)
}

func (g *Gate) executeRead(ctx context.Context, d *Descriptor, roster []domain.Client) (string, error) {
	switch d.Kind {
	case ActionListClients:
		return FormatClients(roster), nil

	case ActionInvoicePDF:
		if d.Fields.Query == nil || d.Fields.Query.InvoiceID == 0 {
			return "Which invoice would you like? Please give me the invoice ID.", nil
		}
		invoice, err := g.invoices.Get(ctx, d.Fields.Query.InvoiceID)
		if err != nil {
			if errors.Is(err, domain.ErrInvoiceNotFound) || errors.Is(err, domain.ErrNotFound) {
				return fmt.Sprintf("I couldn't find invoice #%d.", d.Fields.Query.InvoiceID), nil
			}
			return "", err
		}
		return FormatInvoiceLinks(invoice), nil

	case ActionQuery:
		return g.executeQuery(ctx, d.Fields.Query, roster)
	}
	return d.Reply, nil
}

func (g *Gate) executeQuery(ctx context.Context, q *QuerySpec, roster []domain.Client) (string, error) {
	if q == nil {
		return "What would you like to know? I can show invoices, payments, open balances or overall stats.", nil
	}

	names := make(map[int64]string, len(roster))
	for _, c := range roster {
		names[c.ID] = c.Name
	}

	var filter port.InvoiceFilter
	if q.ClientName != "" {
		client, err := ResolveClient(q.ClientName, roster)
		if err != nil {
			return fmt.Sprintf("I don't know a client called %q.", q.ClientName), nil
		}
		filter.ClientID = client.ID
	}

	switch q.QueryType {
	case domain.QueryInvoices:
		invoices, err := g.invoices.ListWithLedger(ctx, filter)
		if err != nil {
			return "", err
		}
		return FormatInvoices(invoices, names), nil

	case domain.QueryPayments:
		payments, err := g.payments.List(ctx, port.PaymentFilter{InvoiceID: q.InvoiceID, ClientID: filter.ClientID})
		if err != nil {
			return "", err
		}
		return FormatPayments(payments), nil

	case domain.QueryBalance:
		invoices, err := g.invoices.ListWithLedger(ctx, filter)
		if err != nil {
			return "", err
		}
		return FormatBalance(invoices, names), nil

	case domain.QueryStats:
		stats, err := g.stats.GetStats(ctx)
		if err != nil {
			return "", err
		}
		return FormatStats(stats), nil
	}
	return "I can show invoices, payments, open balances or overall stats. Which one?", nil
}

func (g *Gate) executeWrite(ctx context.Context, p *PendingAction, conversationID string) (string, error) {
	switch p.Kind {
	case ActionCreateInvoice:
		return g.createInvoice(ctx, p.Fields.Invoice)
	case ActionRecordPayment:
		return g.recordPayment(ctx, p.Fields.Payment)
	case ActionAddClient:
		return g.addClient(ctx, p.Fields.Client)
	case ActionEditInvoice:
		return g.editInvoice(ctx, p.Fields.Edit)
	}
	return "", fmt.Errorf("unexpected pending kind %q on conversation %s", p.Kind, conversationID)
}

func (g *Gate) createInvoice(ctx context.Context, d *InvoiceDraft) (string, error) {
	roster, err := g.clients.List(ctx)
	if err != nil {
		return "", fmt.Errorf("loading client roster: %w", err)
	}
	client, err := ResolveClient(d.ClientName, roster)
	if err != nil {
		return "", err
	}

	invoice, err := g.invoices.Create(ctx, service.CreateInvoiceInput{
		ClientID:    client.ID,
		Description: d.Description,
		Amount:      *d.Amount,
		Currency:    d.Currency,
		WorkDates:   d.WorkDates,
	})
	if err != nil {
		return "", err
	}

	g.audit.Record("invoice_created", "invoice", strconv.FormatInt(invoice.ID, 10), map[string]any{
		"invoice_number": invoice.InvoiceNumber,
		"client":         client.Name,
		"amount":         invoice.Amount.String(),
		"currency":       invoice.Currency,
	})
	return fmt.Sprintf("Invoice %s created for %s: %s %s, due %s.",
		invoice.InvoiceNumber, client.Name,
		invoice.Amount.StringFixed(2), invoice.Currency,
		invoice.DueDate.Format("2006-01-02")), nil
}

func (g *Gate) recordPayment(ctx context.Context, d *PaymentDraft) (string, error) {
	roster, err := g.clients.List(ctx)
	if err != nil {
		return "", fmt.Errorf("loading client roster: %w", err)
	}
	client, err := ResolveClient(d.ClientName, roster)
	if err != nil {
		return "", err
	}

	in := service.RecordPaymentInput{
		InvoiceID: d.InvoiceID,
		Amount:    *d.Amount,
		Currency:  d.Currency,
		Method:    d.Method,
		Notes:     d.Notes,
	}
	if d.Date != "" {
		if t, err := time.Parse("2006-01-02", d.Date); err == nil {
			in.Date = &t
		}
	}

	payment, err := g.payments.Record(ctx, in)
	if err != nil {
		return "", err
	}

	ledger, err := g.invoices.GetWithLedger(ctx, d.InvoiceID)
	if err != nil {
		return "", err
	}

	g.audit.Record("payment_recorded", "payment", strconv.FormatInt(payment.ID, 10), map[string]any{
		"invoice_id": d.InvoiceID,
		"client":     client.Name,
		"amount":     payment.Amount.String(),
		"currency":   payment.Currency,
	})
	if ledger.PaymentStatus == domain.PaymentStatusPaid {
		return fmt.Sprintf("Payment of %s %s recorded. Invoice %s is now fully paid.",
			payment.Amount.StringFixed(2), payment.Currency, ledger.InvoiceNumber), nil
	}
	return fmt.Sprintf("Payment of %s %s recorded against invoice %s. Remaining due: %s %s.",
		payment.Amount.StringFixed(2), payment.Currency, ledger.InvoiceNumber,
		ledger.AmountDue.StringFixed(2), ledger.Currency), nil
}

func (g *Gate) addClient(ctx context.Context, d *ClientDraft) (string, error) {
	client, err := g.clients.Create(ctx, service.CreateClientInput{
		Name:          d.ClientName,
		Address:       d.Address,
		CompanyID:     d.CompanyID,
		Email:         d.Email,
		ContactPerson: d.ContactPerson,
		Phone:         d.Phone,
	})
	if err != nil {
		return "", err
	}

	g.audit.Record("client_added", "client", strconv.FormatInt(client.ID, 10), map[string]any{
		"name": client.Name,
	})
	return fmt.Sprintf("Client %s added.", client.Name), nil
}

func (g *Gate) editInvoice(ctx context.Context, d *InvoiceEdit) (string, error) {
	update := port.InvoiceUpdate{
		Amount:      d.Amount,
		Description: d.Description,
	}
	if d.Status != nil {
		status := domain.InvoiceStatus(*d.Status)
		update.Status = &status
	}

	invoice, err := g.invoices.Update(ctx, d.InvoiceID, update)
	if err != nil {
		return "", err
	}

	g.audit.Record("invoice_updated", "invoice", strconv.FormatInt(invoice.ID, 10), map[string]any{
		"invoice_number": invoice.InvoiceNumber,
	})
	return fmt.Sprintf("Invoice %s updated.", invoice.InvoiceNumber), nil
}
