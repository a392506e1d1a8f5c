package observers

import (
	"context"
	"testing"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

func TestModelHandlerAccumulatesCost(t *testing.T) {
	ctx, usage := WithUsage(context.Background())
	h := newModelHandler("gemini-2.5-flash")
	info := &einocb.RunInfo{Name: "oracle", Type: "Gemini"}

	msg := schema.AssistantMessage("ok", nil)
	msg.ResponseMeta = &schema.ResponseMeta{Usage: &schema.TokenUsage{PromptTokens: 1_000_000, CompletionTokens: 0, TotalTokens: 1_000_000}}
	h.OnEnd(ctx, info, &model.CallbackOutput{Message: msg})
	h.OnEnd(ctx, info, &model.CallbackOutput{
		Message:    schema.AssistantMessage("ok", nil),
		TokenUsage: &model.TokenUsage{PromptTokens: 0, CompletionTokens: 1_000_000, TotalTokens: 1_000_000},
		Config:     &model.Config{Model: "gemini-2.5-pro"},
	})

	calls, in, out, cost := usage.Snapshot()
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1_000_000, in)
	assert.Equal(t, 1_000_000, out)
	assert.InDelta(t, 0.30+10.00, cost, 1e-9)
}

func TestUsageWithoutContextIsNoop(t *testing.T) {
	h := newModelHandler("unknown")
	assert.NotPanics(t, func() {
		h.OnEnd(context.Background(), &einocb.RunInfo{}, &model.CallbackOutput{})
		h.OnEnd(context.Background(), &einocb.RunInfo{}, nil)
	})
	calls, _, _, _ := UsageFrom(context.Background()).Snapshot()
	assert.Zero(t, calls)
}

func TestHead(t *testing.T) {
	assert.Equal(t, "a b", head("  a\n b ", 10))
	assert.Equal(t, "abc...", head("abcdef", 3))
}

func TestNewAllCallbacks(t *testing.T) {
	assert.NotNil(t, NewAllCallbacks("gemini-2.5-flash"))
}
