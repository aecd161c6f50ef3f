package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"faktura/internal/assistant"
)

// ChatHandler handles the conversational assistant endpoints.
type ChatHandler struct {
	gate *assistant.Gate
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(gate *assistant.Gate) *ChatHandler {
	return &ChatHandler{gate: gate}
}

// ChatRequest is the body of a chat turn.
type ChatRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversation_id"`
}

// ConversationRequest addresses an existing conversation.
type ConversationRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
}

// Message handles POST /api/v1/chat
// @Summary Process a chat message
// @Description Interpret one user message; read actions answer immediately, write actions come back pending confirmation
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ChatRequest true "User message"
// @Success 200 {object} APIResponse{data=assistant.TurnResult} "Turn result"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 429 {object} APIResponse "Rate limited"
// @Router /chat [post]
func (h *ChatHandler) Message(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "message must not be empty")
		return
	}

	result, err := h.gate.ProcessTurn(c.Request.Context(), req.Message, req.ConversationID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Confirm handles POST /api/v1/chat/confirm
// @Summary Confirm the pending action
// @Description Execute the write action staged on this conversation
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ConversationRequest true "Conversation to confirm"
// @Success 200 {object} APIResponse{data=assistant.ConfirmResult} "Executed action"
// @Failure 400 {object} APIResponse "Nothing pending or validation error"
// @Router /chat/confirm [post]
func (h *ChatHandler) Confirm(c *gin.Context) {
	var req ConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.gate.ConfirmPending(c.Request.Context(), req.ConversationID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Cancel handles POST /api/v1/chat/cancel
// @Summary Cancel the pending action
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ConversationRequest true "Conversation to cancel"
// @Success 200 {object} APIResponse "Cancellation result"
// @Router /chat/cancel [post]
func (h *ChatHandler) Cancel(c *gin.Context) {
	var req ConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	cancelled := h.gate.CancelPending(req.ConversationID)
	msg := "nothing to cancel"
	if cancelled {
		msg = "pending action cancelled"
	}
	RespondOK(c, gin.H{"cancelled": cancelled, "message": msg})
}

// Clear handles DELETE /api/v1/chat/:conversation_id
// @Summary Clear a conversation
// @Description Drop a conversation's history and any pending action
// @Tags chat
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Success 200 {object} APIResponse "Cleared"
// @Router /chat/{conversation_id} [delete]
func (h *ChatHandler) Clear(c *gin.Context) {
	h.gate.ClearConversation(c.Param("conversation_id"))
	RespondOK(c, gin.H{"message": "conversation cleared"})
}
