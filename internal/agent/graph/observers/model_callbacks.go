package observers

import (
	"context"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	agentmodel "github.com/Chative-core-poc-v1/policy-advisor/internal/agent/model"
	logx "github.com/Chative-core-poc-v1/policy-advisor/pkg/logger"
)

// newModelHandler logs oracle calls and records their token cost.
func newModelHandler(defaultModel string) *callbackHelper.ModelCallbackHandler {
	return &callbackHelper.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			ev := logx.Debug().Str("component", info.Type).Str("name", info.Name)
			if input != nil {
				ev = ev.Int("messages", len(input.Messages)).Str("prompt_head", head(lastUserContent(input.Messages), 160))
			}
			ev.Msg("Model call started")
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			if output == nil {
				return ctx
			}
			modelName := defaultModel
			if output.Config != nil && output.Config.Model != "" {
				modelName = output.Config.Model
			}
			usage := tokenUsage(output)
			inC, outC, totalC := agentmodel.ComputeCost(usage, agentmodel.ResolvePricing(modelName))
			UsageFrom(ctx).add(usage, totalC)

			ev := logx.Debug().Str("component", info.Type).Str("name", info.Name).Str("model", modelName)
			if usage != nil {
				ev = ev.
					Int("prompt_tokens", usage.PromptTokens).
					Int("completion_tokens", usage.CompletionTokens).
					Int("total_tokens", usage.TotalTokens).
					Float64("input_cost_usd", inC).
					Float64("output_cost_usd", outC).
					Float64("total_cost_usd", totalC)
			}
			if output.Message != nil {
				ev = ev.Str("reply_head", head(output.Message.Content, 160))
			}
			ev.Msg("LLM usage")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().Err(err).Str("component", info.Type).Str("name", info.Name).Msg("Model call failed")
			return ctx
		},
	}
}

// tokenUsage prefers the callback's own usage and falls back to the
// message response metadata.
func tokenUsage(out *model.CallbackOutput) *schema.TokenUsage {
	if out.TokenUsage != nil {
		return &schema.TokenUsage{
			PromptTokens:     out.TokenUsage.PromptTokens,
			CompletionTokens: out.TokenUsage.CompletionTokens,
			TotalTokens:      out.TokenUsage.TotalTokens,
		}
	}
	if out.Message != nil && out.Message.ResponseMeta != nil {
		return out.Message.ResponseMeta.Usage
	}
	return nil
}

func lastUserContent(msgs []*schema.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m == nil {
			continue
		}
		if m.Role == schema.User {
			return strings.TrimSpace(m.Content)
		}
	}
	return ""
}

func head(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
