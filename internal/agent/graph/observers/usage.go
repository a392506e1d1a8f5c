package observers

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/schema"
)

type usageKey struct{}

// Usage accumulates oracle token usage and cost for one turn.
type Usage struct {
	mu               sync.Mutex
	calls            int
	promptTokens     int
	completionTokens int
	costUSD          float64
}

// WithUsage attaches a fresh Usage to ctx.
func WithUsage(ctx context.Context) (context.Context, *Usage) {
	u := &Usage{}
	return context.WithValue(ctx, usageKey{}, u), u
}

// UsageFrom returns the Usage attached to ctx, or nil. A nil Usage ignores writes.
func UsageFrom(ctx context.Context) *Usage {
	u, _ := ctx.Value(usageKey{}).(*Usage)
	return u
}

func (u *Usage) add(t *schema.TokenUsage, cost float64) {
	if u == nil {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++
	u.costUSD += cost
	if t != nil {
		u.promptTokens += t.PromptTokens
		u.completionTokens += t.CompletionTokens
	}
}

// Snapshot returns calls, prompt tokens, completion tokens and cost so far.
func (u *Usage) Snapshot() (calls, promptTokens, completionTokens int, costUSD float64) {
	if u == nil {
		return 0, 0, 0, 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls, u.promptTokens, u.completionTokens, u.costUSD
}
