package repo

import (
	"context"
	"sync"

	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/model"
)

// MemorySessionRepository keeps sessions in process memory. Used when no
// Redis URL is configured and in tests.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]model.DialogueState
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]model.DialogueState)}
}

func (r *MemorySessionRepository) Load(_ context.Context, conversationID string) (model.DialogueState, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[conversationID]
	if !ok {
		return model.NewDialogueState(), false, nil
	}
	return s.Clone(), true, nil
}

func (r *MemorySessionRepository) Save(_ context.Context, conversationID string, state model.DialogueState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[conversationID] = state.Clone()
	return nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, conversationID)
	return nil
}

var _ model.SessionRepository = (*MemorySessionRepository)(nil)
