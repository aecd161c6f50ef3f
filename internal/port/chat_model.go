package port

import "context"

// ChatTurn is one message in a model conversation.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries a system prompt plus the conversation so far.
type ChatRequest struct {
	System   string
	Messages []ChatTurn
}

// ChatModel abstracts a text-generation service. Complete returns the raw
// assistant reply; callers own recovering structured data from it.
type ChatModel interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}
