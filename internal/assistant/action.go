package assistant

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"faktura/internal/domain"
)

// ActionKind identifies what a user message asks the system to do.
type ActionKind string

const (
	// Write kinds: mutate state, require an explicit confirm step.
	ActionCreateInvoice ActionKind = "invoice"
	ActionRecordPayment ActionKind = "payment"
	ActionAddClient     ActionKind = "add_client"
	ActionEditInvoice   ActionKind = "edit_invoice"

	// Read kinds: execute immediately, never stored as pending.
	ActionListClients ActionKind = "list_clients"
	ActionQuery       ActionKind = "query"
	ActionInvoicePDF  ActionKind = "get_invoice_pdf"

	// No action: pure conversation.
	ActionHelp    ActionKind = "help"
	ActionGeneral ActionKind = "general"
	ActionNone    ActionKind = "none"
)

// IsWrite reports whether the kind mutates state and therefore needs
// confirmation before executing.
func (k ActionKind) IsWrite() bool {
	switch k {
	case ActionCreateInvoice, ActionRecordPayment, ActionAddClient, ActionEditInvoice:
		return true
	}
	return false
}

// IsRead reports whether the kind executes immediately against the record
// store without confirmation.
func (k ActionKind) IsRead() bool {
	switch k {
	case ActionListClients, ActionQuery, ActionInvoicePDF:
		return true
	}
	return false
}

// requiredFields names the fields each kind must carry before it may reach
// the mutation layer.
var requiredFields = map[ActionKind][]string{
	ActionCreateInvoice: {"client_name", "amount", "description"},
	ActionRecordPayment: {"client_name", "amount", "invoice_id"},
	ActionAddClient:     {"client_name"},
	ActionEditInvoice:   {"invoice_id"},
	ActionQuery:         {"query_type"},
	ActionListClients:   {},
	ActionInvoicePDF:    {"invoice_id"},
}

// RequiredFields returns the required-field set for a kind.
func RequiredFields(kind ActionKind) []string {
	return requiredFields[kind]
}

// InvoiceDraft holds the extracted fields of a create_invoice action.
type InvoiceDraft struct {
	ClientName  string           `json:"client_name"`
	Amount      *decimal.Decimal `json:"amount"`
	Currency    string           `json:"currency"`
	Description string           `json:"description"`
	WorkDates   string           `json:"work_dates"`
}

func (d *InvoiceDraft) missingFields() []string {
	var missing []string
	if d.ClientName == "" {
		missing = append(missing, "client_name")
	}
	if d.Amount == nil || !d.Amount.IsPositive() {
		missing = append(missing, "amount")
	}
	if d.Description == "" {
		missing = append(missing, "description")
	}
	return missing
}

// PaymentDraft holds the extracted fields of a record_payment action.
type PaymentDraft struct {
	ClientName string           `json:"client_name"`
	Amount     *decimal.Decimal `json:"amount"`
	Currency   string           `json:"currency"`
	InvoiceID  int64            `json:"invoice_id"`
	Date       string           `json:"date"`
	Method     string           `json:"method"`
	Notes      string           `json:"notes"`
}

func (d *PaymentDraft) missingFields() []string {
	var missing []string
	if d.ClientName == "" {
		missing = append(missing, "client_name")
	}
	if d.Amount == nil || !d.Amount.IsPositive() {
		missing = append(missing, "amount")
	}
	if d.InvoiceID == 0 {
		missing = append(missing, "invoice_id")
	}
	return missing
}

// ClientDraft holds the extracted fields of an add_client action.
type ClientDraft struct {
	ClientName    string `json:"client_name"`
	Address       string `json:"address"`
	CompanyID     string `json:"company_id"`
	Email         string `json:"email"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
}

func (d *ClientDraft) missingFields() []string {
	if d.ClientName == "" {
		return []string{"client_name"}
	}
	return nil
}

// InvoiceEdit holds the extracted fields of an edit_invoice action. Only
// non-nil fields are applied.
type InvoiceEdit struct {
	InvoiceID   int64            `json:"invoice_id"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	Status      *string          `json:"status"`
}

func (e *InvoiceEdit) missingFields() []string {
	if e.InvoiceID == 0 {
		return []string{"invoice_id"}
	}
	return nil
}

// HasChanges reports whether the edit supplies at least one field to apply.
func (e *InvoiceEdit) HasChanges() bool {
	return e.Amount != nil || e.Description != nil || e.Status != nil
}

// QuerySpec holds the extracted fields of a read-only data query.
type QuerySpec struct {
	QueryType  domain.QueryType `json:"query_type"`
	ClientName string           `json:"client_name"`
	InvoiceID  int64            `json:"invoice_id"`
}

func (q *QuerySpec) missingFields() []string {
	if q.QueryType == "" {
		return []string{"query_type"}
	}
	return nil
}

// Fields is the tagged union of per-kind extracted data. Exactly one
// variant is set for kinds that carry data; all are nil for help/general/
// none and list_clients.
type Fields struct {
	Invoice *InvoiceDraft `json:"invoice,omitempty"`
	Payment *PaymentDraft `json:"payment,omitempty"`
	Client  *ClientDraft  `json:"client,omitempty"`
	Edit    *InvoiceEdit  `json:"edit,omitempty"`
	Query   *QuerySpec    `json:"query,omitempty"`
}

// MissingFields returns the required fields the set variant lacks for the
// given kind. A kind that needs data but has no variant at all reports its
// full required-field set.
func (f *Fields) MissingFields(kind ActionKind) []string {
	switch kind {
	case ActionCreateInvoice:
		if f.Invoice == nil {
			return RequiredFields(kind)
		}
		return f.Invoice.missingFields()
	case ActionRecordPayment:
		if f.Payment == nil {
			return RequiredFields(kind)
		}
		return f.Payment.missingFields()
	case ActionAddClient:
		if f.Client == nil {
			return RequiredFields(kind)
		}
		return f.Client.missingFields()
	case ActionEditInvoice:
		if f.Edit == nil {
			return RequiredFields(kind)
		}
		return f.Edit.missingFields()
	case ActionQuery:
		if f.Query == nil {
			return RequiredFields(kind)
		}
		return f.Query.missingFields()
	}
	return nil
}

// decodeFields unmarshals the model's raw extracted_data into the typed
// variant for the kind. Unknown kinds and kinds without data return empty
// Fields. A decode failure is treated as a validation problem, not a crash:
// the caller reports the kind's required fields as missing.
func decodeFields(kind ActionKind, raw json.RawMessage) (Fields, error) {
	var f Fields
	if len(raw) == 0 || string(raw) == "null" {
		return f, nil
	}
	var err error
	switch kind {
	case ActionCreateInvoice:
		f.Invoice = &InvoiceDraft{}
		err = json.Unmarshal(raw, f.Invoice)
	case ActionRecordPayment:
		f.Payment = &PaymentDraft{}
		err = json.Unmarshal(raw, f.Payment)
	case ActionAddClient:
		f.Client = &ClientDraft{}
		err = json.Unmarshal(raw, f.Client)
	case ActionEditInvoice:
		f.Edit = &InvoiceEdit{}
		err = json.Unmarshal(raw, f.Edit)
	case ActionQuery:
		f.Query = &QuerySpec{}
		err = json.Unmarshal(raw, f.Query)
	default:
		return f, nil
	}
	if err != nil {
		return Fields{}, fmt.Errorf("decoding %s fields: %w", kind, err)
	}
	return f, nil
}

// Descriptor is the structured result of interpreting one user message.
type Descriptor struct {
	Reply          string     `json:"reply"`
	Kind           ActionKind `json:"action_kind"`
	Fields         Fields     `json:"fields"`
	Ready          bool       `json:"ready"`
	MissingFields  []string   `json:"missing_fields"`
	ConversationID string     `json:"conversation_id"`
}
