package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"faktura/internal/assistant"
	"faktura/internal/domain"
	"faktura/internal/handler"
	"faktura/mocks"
)

type chatFixture struct {
	h     *handler.ChatHandler
	model *mocks.MockChatModel
}

func newChatHandler() *chatFixture {
	model := new(mocks.MockChatModel)
	clients := new(mocks.MockClientService)
	invoices := new(mocks.MockInvoiceService)
	payments := new(mocks.MockPaymentService)
	stats := new(mocks.MockStatsService)

	clients.On("List", mock.Anything).Return([]domain.Client{{ID: 1, Name: "Bauceram GmbH"}}, nil)
	stats.On("GetStats", mock.Anything).Return(&domain.Stats{}, nil)

	store := assistant.NewConversationStore(10, time.Hour)
	extractor := assistant.NewExtractor(model, store)
	gate := assistant.NewGate(extractor, store, clients, invoices, payments, stats, nil)
	return &chatFixture{h: handler.NewChatHandler(gate), model: model}
}

func TestChatHandler_Message(t *testing.T) {
	f := newChatHandler()

	f.model.On("Complete", mock.Anything, mock.Anything).Return(
		`{"message": "Hello! How can I help?", "action_type": "general"}`, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/chat", map[string]string{"message": "hi"})

	f.h.Message(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data assistant.TurnResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Hello! How can I help?", resp.Data.Reply)
	assert.NotEmpty(t, resp.Data.ConversationID)
}

func TestChatHandler_Message_EmptyMessage(t *testing.T) {
	f := newChatHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/chat", map[string]string{"message": "   "})

	f.h.Message(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "message must not be empty")
}

func TestChatHandler_Confirm_NothingPending(t *testing.T) {
	f := newChatHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/chat/confirm", map[string]string{"conversation_id": "c1"})

	f.h.Confirm(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NOTHING_PENDING")
}

func TestChatHandler_Cancel(t *testing.T) {
	f := newChatHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/chat/cancel", map[string]string{"conversation_id": "c1"})

	f.h.Cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cancelled":false`)
}

func TestChatHandler_Clear(t *testing.T) {
	f := newChatHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/chat/c1", nil)
	c.Params = gin.Params{{Key: "conversation_id", Value: "c1"}}

	f.h.Clear(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "conversation cleared")
}
