package assistant

import (
	"context"
	"log"

	"github.com/google/uuid"

	"faktura/internal/domain"
	"faktura/internal/port"
)

const (
	fallbackTransport = "Sorry, I'm having trouble connecting to the AI service. Please try again in a moment."
	fallbackClarify   = "I understood your request. Could you please rephrase?"
	roleUser          = "user"
	roleAssistant     = "assistant"
)

// Extractor turns one user message into exactly one Action Descriptor via a
// single call to the text-generation service. Any transport or parse failure
// degrades to a well-formed Descriptor with kind none; raw failures never
// reach the user.
type Extractor struct {
	model port.ChatModel
	store *ConversationStore
}

// NewExtractor creates an Extractor backed by the given model and
// conversation store.
func NewExtractor(model port.ChatModel, store *ConversationStore) *Extractor {
	return &Extractor{model: model, store: store}
}

// Extract processes the latest user message with the live client roster and
// optional aggregate context. A missing conversation id is replaced with a
// fresh one; the id used is echoed in the Descriptor.
func (e *Extractor) Extract(ctx context.Context, message, conversationID string, clients []domain.Client, stats *domain.Stats) *Descriptor {
	if conversationID == "" {
		conversationID = uuid.New().String()
	}

	system := BuildSystemPrompt(clients, stats)

	e.store.Append(conversationID, roleUser, message)

	raw, err := e.model.Complete(ctx, port.ChatRequest{
		System:   system,
		Messages: e.store.History(conversationID),
	})
	if err != nil {
		log.Printf("assistant: model call failed for conversation %s: %v", conversationID, err)
		return &Descriptor{
			Reply:          fallbackTransport,
			Kind:           ActionNone,
			ConversationID: conversationID,
		}
	}

	e.store.Append(conversationID, roleAssistant, raw)

	reply, ok := parseModelReply(raw)
	if !ok {
		log.Printf("assistant: unparsable model reply for conversation %s: %.200s", conversationID, raw)
		msg := extractMessage(raw)
		if msg == "" {
			msg = fallbackClarify
		}
		return &Descriptor{
			Reply:          msg,
			Kind:           ActionNone,
			ConversationID: conversationID,
		}
	}

	kind := normalizeKind(reply.ActionType)
	fields, err := decodeFields(kind, reply.ExtractedData)
	if err != nil {
		log.Printf("assistant: bad extracted_data for conversation %s: %v", conversationID, err)
		return &Descriptor{
			Reply:          reply.Message,
			Kind:           kind,
			Ready:          false,
			MissingFields:  RequiredFields(kind),
			ConversationID: conversationID,
		}
	}

	return &Descriptor{
		Reply:          reply.Message,
		Kind:           kind,
		Fields:         fields,
		Ready:          reply.ReadyToCreate,
		MissingFields:  reply.MissingFields,
		ConversationID: conversationID,
	}
}

// normalizeKind maps the model's action_type string onto the closed kind
// set; anything unrecognized becomes general conversation.
func normalizeKind(actionType string) ActionKind {
	switch ActionKind(actionType) {
	case ActionCreateInvoice, ActionRecordPayment, ActionAddClient, ActionEditInvoice,
		ActionListClients, ActionQuery, ActionInvoicePDF, ActionHelp, ActionGeneral, ActionNone:
		return ActionKind(actionType)
	case "":
		return ActionNone
	}
	return ActionGeneral
}
