package assistant_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faktura/internal/assistant"
)

func TestConversationStore_HistoryWindow(t *testing.T) {
	store := assistant.NewConversationStore(4, time.Hour)

	for i := 0; i < 6; i++ {
		store.Append("conv", "user", fmt.Sprintf("message %d", i))
	}

	history := store.History("conv")
	require.Len(t, history, 4)
	assert.Equal(t, "message 2", history[0].Content)
	assert.Equal(t, "message 5", history[3].Content)
}

func TestConversationStore_UnknownConversation(t *testing.T) {
	store := assistant.NewConversationStore(10, time.Hour)
	assert.Empty(t, store.History("nope"))
	assert.Nil(t, store.TakePending("nope"))
}

func TestConversationStore_TakePendingIsOneShot(t *testing.T) {
	store := assistant.NewConversationStore(10, time.Hour)

	token := store.StorePending("conv", assistant.ActionCreateInvoice, assistant.Fields{})
	require.NotEmpty(t, token)

	p := store.TakePending("conv")
	require.NotNil(t, p)
	assert.Equal(t, assistant.ActionCreateInvoice, p.Kind)
	assert.Equal(t, token, p.Token)

	assert.Nil(t, store.TakePending("conv"))
}

func TestConversationStore_StorePendingReplacesPrior(t *testing.T) {
	store := assistant.NewConversationStore(10, time.Hour)

	first := store.StorePending("conv", assistant.ActionCreateInvoice, assistant.Fields{})
	second := store.StorePending("conv", assistant.ActionAddClient, assistant.Fields{})
	assert.NotEqual(t, first, second)

	p := store.TakePending("conv")
	require.NotNil(t, p)
	assert.Equal(t, assistant.ActionAddClient, p.Kind)
}

func TestConversationStore_Clear(t *testing.T) {
	store := assistant.NewConversationStore(10, time.Hour)

	store.Append("conv", "user", "hello")
	store.StorePending("conv", assistant.ActionAddClient, assistant.Fields{})
	store.Clear("conv")

	assert.Empty(t, store.History("conv"))
	assert.Nil(t, store.TakePending("conv"))
}

func TestConversationStore_PendingIsPerConversation(t *testing.T) {
	store := assistant.NewConversationStore(10, time.Hour)

	store.StorePending("a", assistant.ActionCreateInvoice, assistant.Fields{})

	assert.Nil(t, store.TakePending("b"))
	assert.NotNil(t, store.TakePending("a"))
}
