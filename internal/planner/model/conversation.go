package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// ConversationStore persists user/assistant turns, keyed by conversation id.
// Persistence failures never block answer delivery; callers log and move on.
type ConversationStore interface {
	// AppendTurn appends one turn to the conversation history.
	AppendTurn(ctx context.Context, conversationID string, role schema.RoleType, content string) error

	// CreateConversation starts a new conversation seeded with the initial
	// user turn and returns its id.
	CreateConversation(ctx context.Context, initialTurn string) (string, error)

	// LoadHistory retrieves the full turn history for a conversation.
	LoadHistory(ctx context.Context, conversationID string) (*ConversationHistory, error)
}

// ConversationHistory represents loaded conversation data with metadata.
type ConversationHistory struct {
	ConversationID string
	Messages       []*schema.Message
}
