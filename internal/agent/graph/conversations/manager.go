package conversations

import (
	"context"
	"errors"
	"strings"

	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/model"
	logx "github.com/Chative-core-poc-v1/policy-advisor/pkg/logger"
)

const (
	// Greeting opens every new conversation.
	Greeting = "Hello! I can help you with Health, Vehicle, Pet, and Property insurance. How can I assist you today?"
	// Fallback is returned when a turn produces no assistant message.
	Fallback = "I'm sorry, I didn't quite understand that. Could you please specify which type of insurance (Health, Vehicle, Pet, etc.) you are interested in?"

	responseSeparator = "\n\n"
)

// ErrEmptyConversationID is returned for turns without a conversation id.
var ErrEmptyConversationID = errors.New("conversation id is empty")

// SessionManager owns the load / append / save bookkeeping around one turn.
type SessionManager struct {
	sessionRepo model.SessionRepository
}

func NewSessionManager(sessionRepo model.SessionRepository) *SessionManager {
	return &SessionManager{sessionRepo: sessionRepo}
}

// Begin loads the stored state and appends the user message, returning
// the turn to run through the graph. A new session starts with the
// greeting in its history.
func (sm *SessionManager) Begin(ctx context.Context, conversationID, query string) (*model.Turn, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, ErrEmptyConversationID
	}

	state, found, err := sm.sessionRepo.Load(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !found {
		logx.Debug().Str("conversation_id", conversationID).Msg("Starting new session")
		state.Messages = append(state.Messages, model.AssistantMessage(Greeting))
	}

	state.Messages = append(state.Messages, model.UserMessage(query))
	return model.NewTurn(conversationID, state), nil
}

// Commit persists the state of a completed turn and returns the reply
// text. A turn that emitted nothing gets the fallback message, which is
// also recorded in the history.
func (sm *SessionManager) Commit(ctx context.Context, t *model.Turn) (string, error) {
	if len(t.Emitted) == 0 {
		logx.Warn().Str("conversation_id", t.ConversationID).Msg("Turn emitted nothing - using fallback")
		t.Apply(model.Patch{Messages: []model.Message{model.AssistantMessage(Fallback)}})
	}

	if err := sm.sessionRepo.Save(ctx, t.ConversationID, t.State); err != nil {
		return "", err
	}
	return Reply(t.Emitted), nil
}

// Reset forgets the conversation.
func (sm *SessionManager) Reset(ctx context.Context, conversationID string) error {
	if strings.TrimSpace(conversationID) == "" {
		return ErrEmptyConversationID
	}
	return sm.sessionRepo.Delete(ctx, conversationID)
}

// Reply joins the assistant messages of one turn.
func Reply(emitted []model.Message) string {
	parts := make([]string, 0, len(emitted))
	for _, m := range emitted {
		if m.Role != model.RoleAssistant || m.Content == "" {
			continue
		}
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, responseSeparator)
}
