package model

import (
	"context"
)

// SessionRepository persists DialogueState between turns.
type SessionRepository interface {
	// Load returns the stored state; found is false for an unknown conversation.
	Load(ctx context.Context, conversationID string) (state DialogueState, found bool, err error)

	// Save stores the state after a successful turn.
	Save(ctx context.Context, conversationID string, state DialogueState) error

	// Delete removes the conversation.
	Delete(ctx context.Context, conversationID string) error
}
