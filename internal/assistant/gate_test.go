package assistant_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"faktura/internal/assistant"
	"faktura/internal/domain"
	"faktura/internal/port"
	"faktura/internal/service"
	"faktura/mocks"
)

type gateFixture struct {
	gate     *assistant.Gate
	model    *mocks.MockChatModel
	clients  *mocks.MockClientService
	invoices *mocks.MockInvoiceService
	payments *mocks.MockPaymentService
	stats    *mocks.MockStatsService
}

func newGateFixture() *gateFixture {
	f := &gateFixture{
		model:    new(mocks.MockChatModel),
		clients:  new(mocks.MockClientService),
		invoices: new(mocks.MockInvoiceService),
		payments: new(mocks.MockPaymentService),
		stats:    new(mocks.MockStatsService),
	}
	store := assistant.NewConversationStore(10, time.Hour)
	extractor := assistant.NewExtractor(f.model, store)
	f.gate = assistant.NewGate(extractor, store, f.clients, f.invoices, f.payments, f.stats, nil)
	return f
}

func (f *gateFixture) stubRoster() {
	f.clients.On("List", mock.Anything).Return([]domain.Client{
		{ID: 1, Name: "Bauceram GmbH", Email: "info@bauceram.example"},
		{ID: 2, Name: "Clinker Bau Schweiz GmbH"},
	}, nil)
	f.stats.On("GetStats", mock.Anything).Return(&domain.Stats{ClientCount: 2}, nil)
}

func TestGate_ProcessTurn_ConversationalKindPassesThrough(t *testing.T) {
	f := newGateFixture()
	f.stubRoster()
	f.model.On("Complete", mock.Anything, mock.Anything).Return(
		`{"message": "I can create invoices, record payments and show your numbers.", "action_type": "help"}`, nil)

	result, err := f.gate.ProcessTurn(context.Background(), "what can you do?", "")
	require.NoError(t, err)
	assert.Equal(t, assistant.ActionHelp, result.Kind)
	assert.False(t, result.RequiresConfirmation)
	assert.NotEmpty(t, result.ConversationID)
}

func TestGate_ProcessTurn_ListClientsExecutesImmediately(t *testing.T) {
	f := newGateFixture()
	f.stubRoster()
	f.model.On("Complete", mock.Anything, mock.Anything).Return(
		`{"message": "Here are your clients", "action_type": "list_clients"}`, nil)

	result, err := f.gate.ProcessTurn(context.Background(), "show my clients", "c1")
	require.NoError(t, err)
	assert.Equal(t, assistant.ActionListClients, result.Kind)
	assert.Contains(t, result.Reply, "Bauceram GmbH")
	assert.False(t, result.RequiresConfirmation)
}

func TestGate_ProcessTurn_QueryBalance(t *testing.T) {
	f := newGateFixture()
	f.stubRoster()
	f.model.On("Complete", mock.Anything, mock.Anything).Return(
		`{"message": "Checking", "action_type": "query", "extracted_data": {"query_type": "balance"}}`, nil)
	f.invoices.On("ListWithLedger", mock.Anything, port.InvoiceFilter{}).Return([]domain.InvoiceWithLedger{
		{
			Invoice:       domain.Invoice{ID: 1, InvoiceNumber: "01/06/2026", ClientID: 1, Amount: decimal.NewFromInt(500), Currency: "EUR"},
			InvoiceLedger: domain.NewInvoiceLedger(decimal.NewFromInt(500), decimal.Zero),
		},
	}, nil)

	result, err := f.gate.ProcessTurn(context.Background(), "who owes me money?", "c1")
	require.NoError(t, err)
	assert.Contains(t, result.Reply, "Total outstanding: 500.00 EUR")
}

func TestGate_ProcessTurn_QueryWithUnknownClientFilter(t *testing.T) {
	f := newGateFixture()
	f.stubRoster()
	f.model.On("Complete", mock.Anything, mock.Anything).Return(
		`{"message": "Checking", "action_type": "query", "extracted_data": {"query_type": "invoices", "client_name": "Siemens"}}`, nil)

	result, err := f.gate.ProcessTurn(context.Background(), "invoices for Siemens", "c1")
	require.NoError(t, err)
	assert.Contains(t, result.Reply, `I don't know a client called "Siemens".`)
	f.invoices.AssertNotCalled(t, "ListWithLedger", mock.Anything, mock.Anything)
}

func TestGate_ProcessTurn_WriteWithMissingFieldsNotStaged(t *testing.T) {
	f := newGateFixture()
	f.stubRoster()
	f.model.On("Complete", mock.Anything, mock.Anything).Return(
		`{"message": "What is the amount?", "action_type": "invoice", "extracted_data": {"client_name": "Bauceram"}, "ready_to_create": false, "missing_fields": ["amount", "description"]}`, nil)

	result, err := f.gate.ProcessTurn(context.Background(), "invoice for Bauceram", "c1")
	require.NoError(t, err)
	assert.False(t, result.RequiresConfirmation)
	assert.Equal(t, []string{"amount", "description"}, result.MissingFields)

	// Nothing staged, so confirming must fail.
	_, err = f.gate.ConfirmPending(context.Background(), "c1")
	assert.ErrorIs(t, err, domain.ErrNothingPending)
}

func TestGate_ProcessTurn_CompleteWriteIsStagedNotExecuted(t *testing.T) {
	f := newGateFixture()
	f.stubRoster()
	f.model.On("Complete", mock.Anything, mock.Anything).Return(
		`{"message": "Ready", "action_type": "invoice", "extracted_data": {"client_name": "Bauceram", "amount": 2500, "description": "Fliesenarbeiten"}, "ready_to_create": true}`, nil)

	result, err := f.gate.ProcessTurn(context.Background(), "invoice Bauceram 2500 for tiling", "c1")
	require.NoError(t, err)
	assert.True(t, result.RequiresConfirmation)
	assert.NotEmpty(t, result.PendingToken)
	assert.Contains(t, result.Reply, "- Client: Bauceram")
	f.invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGate_ConfirmPending_CreatesInvoice(t *testing.T) {
	f := newGateFixture()
	f.stubRoster()
	f.model.On("Complete", mock.Anything, mock.Anything).Return(
		`{"message": "Ready", "action_type": "invoice", "extracted_data": {"client_name": "Bauceram", "amount": 2500, "description": "Fliesenarbeiten"}, "ready_to_create": true}`, nil)
	f.invoices.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateInvoiceInput) bool {
		return in.ClientID == 1 && in.Amount.Equal(decimal.NewFromInt(2500))
	})).Return(&domain.Invoice{
		ID: 1, InvoiceNumber: "01/06/2026", Amount: decimal.NewFromInt(2500), Currency: "EUR",
		DueDate: time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC),
	}, nil)

	_, err := f.gate.ProcessTurn(context.Background(), "invoice Bauceram 2500 for tiling", "c1")
	require.NoError(t, err)

	result, err := f.gate.ConfirmPending(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, assistant.ActionCreateInvoice, result.Kind)
	assert.Contains(t, result.Reply, "Invoice 01/06/2026 created for Bauceram GmbH")
	f.invoices.AssertExpectations(t)

	// The confirm is one-shot.
	_, err = f.gate.ConfirmPending(context.Background(), "c1")
	assert.ErrorIs(t, err, domain.ErrNothingPending)
}

func TestGate_ConfirmPending_RestagesOnServiceFailure(t *testing.T) {
	f := newGateFixture()
	f.stubRoster()
	f.model.On("Complete", mock.Anything, mock.Anything).Return(
		`{"message": "Ready", "action_type": "payment", "extracted_data": {"client_name": "Bauceram", "amount": 9999, "invoice_id": 3}, "ready_to_create": true}`, nil)
	f.payments.On("Record", mock.Anything, mock.Anything).Return(nil, domain.ErrOverpayment).Once()

	_, err := f.gate.ProcessTurn(context.Background(), "Bauceram paid 9999 on invoice 3", "c1")
	require.NoError(t, err)

	_, err = f.gate.ConfirmPending(context.Background(), "c1")
	assert.ErrorIs(t, err, domain.ErrOverpayment)

	// The staged action survives the failure and can be confirmed again.
	f.payments.On("Record", mock.Anything, mock.Anything).Return(&domain.Payment{
		ID: 5, Amount: decimal.NewFromInt(9999), Currency: "EUR",
	}, nil).Once()
	f.invoices.On("GetWithLedger", mock.Anything, int64(3)).Return(&domain.InvoiceWithLedger{
		Invoice:       domain.Invoice{ID: 3, InvoiceNumber: "02/06/2026", Amount: decimal.NewFromInt(9999), Currency: "EUR"},
		InvoiceLedger: domain.NewInvoiceLedger(decimal.NewFromInt(9999), decimal.NewFromInt(9999)),
	}, nil)

	result, err := f.gate.ConfirmPending(context.Background(), "c1")
	require.NoError(t, err)
	assert.Contains(t, result.Reply, "fully paid")
}

func TestGate_ConfirmPending_PaymentUnknownClientRejected(t *testing.T) {
	f := newGateFixture()
	f.stubRoster()
	f.model.On("Complete", mock.Anything, mock.Anything).Return(
		`{"message": "Ready", "action_type": "payment", "extracted_data": {"client_name": "Siemens", "amount": 400, "invoice_id": 3}, "ready_to_create": true}`, nil)

	_, err := f.gate.ProcessTurn(context.Background(), "Siemens paid 400 on invoice 3", "c1")
	require.NoError(t, err)

	_, err = f.gate.ConfirmPending(context.Background(), "c1")
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
	f.payments.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestGate_CancelPending(t *testing.T) {
	f := newGateFixture()
	f.stubRoster()
	f.model.On("Complete", mock.Anything, mock.Anything).Return(
		`{"message": "Ready", "action_type": "add_client", "extracted_data": {"client_name": "Neubau AG"}, "ready_to_create": true}`, nil)

	_, err := f.gate.ProcessTurn(context.Background(), "add client Neubau AG", "c1")
	require.NoError(t, err)

	assert.True(t, f.gate.CancelPending("c1"))
	assert.False(t, f.gate.CancelPending("c1"))
	f.clients.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGate_ProcessTurn_ModelFailureDegradesGracefully(t *testing.T) {
	f := newGateFixture()
	f.stubRoster()
	f.model.On("Complete", mock.Anything, mock.Anything).Return("", assert.AnError)

	result, err := f.gate.ProcessTurn(context.Background(), "hello", "c1")
	require.NoError(t, err)
	assert.Equal(t, assistant.ActionNone, result.Kind)
	assert.Contains(t, result.Reply, "trouble connecting")
}

func TestGate_ProcessTurn_InvoicePDFLookup(t *testing.T) {
	f := newGateFixture()
	f.stubRoster()
	f.model.On("Complete", mock.Anything, mock.Anything).Return(
		`{"message": "Here", "action_type": "get_invoice_pdf", "extracted_data": {"invoice_id": 7}}`, nil)
	f.invoices.On("Get", mock.Anything, int64(7)).Return(&domain.InvoiceWithClient{
		Invoice: domain.Invoice{ID: 7, InvoiceNumber: "02/06/2026", Amount: decimal.NewFromInt(100), Currency: "EUR"},
		Client:  domain.Client{Name: "Bauceram GmbH"},
	}, nil)

	result, err := f.gate.ProcessTurn(context.Background(), "send me the pdf for invoice 7", "c1")
	require.NoError(t, err)
	assert.Contains(t, result.Reply, "/api/v1/invoices/7/preview")
}

func TestGate_ProcessTurn_InvoicePDFNotFound(t *testing.T) {
	f := newGateFixture()
	f.stubRoster()
	f.model.On("Complete", mock.Anything, mock.Anything).Return(
		`{"message": "Here", "action_type": "get_invoice_pdf", "extracted_data": {"invoice_id": 99}}`, nil)
	f.invoices.On("Get", mock.Anything, int64(99)).Return(nil, domain.ErrInvoiceNotFound)

	result, err := f.gate.ProcessTurn(context.Background(), "pdf for invoice 99", "c1")
	require.NoError(t, err)
	assert.Contains(t, result.Reply, "couldn't find invoice #99")
}
