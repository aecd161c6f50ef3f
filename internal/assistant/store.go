package assistant

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"faktura/internal/port"
)

// PendingAction is a write action staged on a conversation, awaiting an
// explicit confirm. At most one exists per conversation.
type PendingAction struct {
	Kind     ActionKind
	Fields   Fields
	Token    string
	StoredAt time.Time
}

type conversation struct {
	history  []port.ChatTurn
	pending  *PendingAction
	lastSeen time.Time
}

// ConversationStore keeps per-conversation exchange history and the pending
// write action, keyed by conversation id. It is an explicit object handed to
// the core at startup; idle conversations are evicted by TTL on writes.
type ConversationStore struct {
	mu            sync.Mutex
	conversations map[string]*conversation
	historyLimit  int
	ttl           time.Duration
	now           func() time.Time
}

// NewConversationStore creates a store keeping at most historyLimit turns
// per conversation and evicting conversations idle longer than ttl.
func NewConversationStore(historyLimit int, ttl time.Duration) *ConversationStore {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ConversationStore{
		conversations: make(map[string]*conversation),
		historyLimit:  historyLimit,
		ttl:           ttl,
		now:           time.Now,
	}
}

// Append adds one turn to a conversation's history, trimming to the bounded
// window (oldest entries evicted first).
func (s *ConversationStore) Append(conversationID, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(conversationID)
	c.history = append(c.history, port.ChatTurn{Role: role, Content: content})
	if len(c.history) > s.historyLimit {
		c.history = c.history[len(c.history)-s.historyLimit:]
	}
	s.sweep()
}

// History returns the ordered turn history for a conversation. Unknown ids
// yield an empty history, never an error.
func (s *ConversationStore) History(conversationID string) []port.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[conversationID]
	if !ok {
		return nil
	}
	c.lastSeen = s.now()
	out := make([]port.ChatTurn, len(c.history))
	copy(out, c.history)
	return out
}

// StorePending stages a write action on a conversation, replacing any prior
// pending action (last write wins). It returns the correlation token.
func (s *ConversationStore) StorePending(conversationID string, kind ActionKind, fields Fields) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(conversationID)
	c.pending = &PendingAction{
		Kind:     kind,
		Fields:   fields,
		Token:    uuid.New().String(),
		StoredAt: s.now(),
	}
	return c.pending.Token
}

// TakePending returns and atomically removes the conversation's pending
// action, or nil when nothing is staged.
func (s *ConversationStore) TakePending(conversationID string) *PendingAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[conversationID]
	if !ok || c.pending == nil {
		return nil
	}
	c.lastSeen = s.now()
	p := c.pending
	c.pending = nil
	return p
}

// Clear drops a conversation's history and pending action.
func (s *ConversationStore) Clear(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, conversationID)
}

func (s *ConversationStore) get(conversationID string) *conversation {
	c, ok := s.conversations[conversationID]
	if !ok {
		c = &conversation{}
		s.conversations[conversationID] = c
	}
	c.lastSeen = s.now()
	return c
}

// sweep drops conversations idle past the TTL. Callers hold s.mu.
func (s *ConversationStore) sweep() {
	cutoff := s.now().Add(-s.ttl)
	for id, c := range s.conversations {
		if c.lastSeen.Before(cutoff) {
			delete(s.conversations, id)
		}
	}
}
