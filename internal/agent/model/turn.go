package model

// QueryInput represents the input for processing user queries.
type QueryInput struct {
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query"`
}

// Turn is the value flowing through the dialogue graph for one user turn.
type Turn struct {
	ConversationID string
	State          DialogueState
	// Emitted collects the assistant messages produced during this turn.
	Emitted []Message
	// Reentries counts router self-transitions within this turn.
	Reentries int
}

// NewTurn starts a turn from a persisted state.
func NewTurn(conversationID string, state DialogueState) *Turn {
	return &Turn{ConversationID: conversationID, State: state.Clone()}
}

// Apply merges a stage patch into the turn.
func (t *Turn) Apply(p Patch) {
	t.State = t.State.Apply(p)
	t.Emitted = append(t.Emitted, p.Messages...)
}
