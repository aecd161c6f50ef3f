package assistant

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionKind_WriteReadSplit(t *testing.T) {
	writes := []ActionKind{ActionCreateInvoice, ActionRecordPayment, ActionAddClient, ActionEditInvoice}
	for _, k := range writes {
		assert.True(t, k.IsWrite(), "%s should be a write kind", k)
		assert.False(t, k.IsRead(), "%s should not be a read kind", k)
	}

	reads := []ActionKind{ActionListClients, ActionQuery, ActionInvoicePDF}
	for _, k := range reads {
		assert.True(t, k.IsRead(), "%s should be a read kind", k)
		assert.False(t, k.IsWrite(), "%s should not be a write kind", k)
	}

	for _, k := range []ActionKind{ActionHelp, ActionGeneral, ActionNone} {
		assert.False(t, k.IsWrite())
		assert.False(t, k.IsRead())
	}
}

func TestFields_MissingFields_InvoiceDraft(t *testing.T) {
	amount := decimal.NewFromInt(100)

	f := Fields{Invoice: &InvoiceDraft{ClientName: "Bauceram", Amount: &amount, Description: "Tiling"}}
	assert.Empty(t, f.MissingFields(ActionCreateInvoice))

	f = Fields{Invoice: &InvoiceDraft{ClientName: "Bauceram"}}
	assert.Equal(t, []string{"amount", "description"}, f.MissingFields(ActionCreateInvoice))

	zero := decimal.Zero
	f = Fields{Invoice: &InvoiceDraft{ClientName: "Bauceram", Amount: &zero, Description: "x"}}
	assert.Equal(t, []string{"amount"}, f.MissingFields(ActionCreateInvoice))
}

func TestFields_MissingFields_NoVariant(t *testing.T) {
	var f Fields
	assert.Equal(t, RequiredFields(ActionCreateInvoice), f.MissingFields(ActionCreateInvoice))
	assert.Equal(t, RequiredFields(ActionRecordPayment), f.MissingFields(ActionRecordPayment))
	assert.Nil(t, f.MissingFields(ActionHelp))
}

func TestFields_MissingFields_PaymentDraft(t *testing.T) {
	amount := decimal.NewFromInt(50)
	f := Fields{Payment: &PaymentDraft{Amount: &amount}}
	assert.Equal(t, []string{"client_name", "invoice_id"}, f.MissingFields(ActionRecordPayment))
}

func TestDecodeFields_PerKind(t *testing.T) {
	f, err := decodeFields(ActionCreateInvoice, json.RawMessage(`{"client_name": "Bauceram", "amount": "2500.50", "description": "Juni"}`))
	require.NoError(t, err)
	require.NotNil(t, f.Invoice)
	assert.Equal(t, "Bauceram", f.Invoice.ClientName)
	assert.True(t, f.Invoice.Amount.Equal(decimal.NewFromFloat(2500.50)))

	f, err = decodeFields(ActionEditInvoice, json.RawMessage(`{"invoice_id": 7, "status": "paid"}`))
	require.NoError(t, err)
	require.NotNil(t, f.Edit)
	assert.Equal(t, int64(7), f.Edit.InvoiceID)
	assert.True(t, f.Edit.HasChanges())
}

func TestDecodeFields_NullAndEmpty(t *testing.T) {
	f, err := decodeFields(ActionCreateInvoice, nil)
	require.NoError(t, err)
	assert.Nil(t, f.Invoice)

	f, err = decodeFields(ActionCreateInvoice, json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Nil(t, f.Invoice)
}

func TestDecodeFields_MalformedData(t *testing.T) {
	_, err := decodeFields(ActionRecordPayment, json.RawMessage(`{"invoice_id": "not-a-number"}`))
	assert.Error(t, err)
}

func TestDecodeFields_ConversationalKindIgnoresData(t *testing.T) {
	f, err := decodeFields(ActionHelp, json.RawMessage(`{"anything": true}`))
	require.NoError(t, err)
	assert.Equal(t, Fields{}, f)
}

func TestConversationStore_SweepsIdleConversations(t *testing.T) {
	store := NewConversationStore(10, time.Minute)
	current := time.Now()
	store.now = func() time.Time { return current }

	store.Append("stale", "user", "hello")
	store.StorePending("stale", ActionAddClient, Fields{})

	current = current.Add(2 * time.Minute)
	store.Append("fresh", "user", "hi")

	assert.Empty(t, store.History("stale"))
	assert.Nil(t, store.TakePending("stale"))
	assert.Len(t, store.History("fresh"), 1)
}
