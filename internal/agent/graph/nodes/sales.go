package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/graph/prompts"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/model"
)

const noPolicyContext = "No specific policy context available."

// Sales answers follow-up questions from the cached recommendation context.
type Sales struct {
	oracle Completer
}

func NewSales(c Completer) *Sales {
	return &Sales{oracle: c}
}

// Answer either hands control back to the Analyst for alternatives or
// answers the newest question from the cached context.
func (s *Sales) Answer(ctx context.Context, st model.DialogueState) (model.Patch, error) {
	question := st.LastUserMessage()
	if wantsAlternatives(question) {
		return model.Patch{
			Messages:        []model.Message{model.AssistantMessage("Sure, let me look for other options based on your profile...")},
			RecommendedPlan: model.Set(""),
			NextStep:        model.Set(model.StageAnalyst),
		}, nil
	}

	policyContext := noPolicyContext
	if st.PolicyContext != nil && strings.TrimSpace(*st.PolicyContext) != "" {
		policyContext = *st.PolicyContext
	}
	var rules string
	if st.LogicContext != nil {
		rules = *st.LogicContext
	}

	p, err := prompts.RenderSales(ctx, prompts.SalesInput{
		Context:  policyContext,
		Rules:    rules,
		Profile:  st.CollectedData,
		Question: question,
	})
	if err != nil {
		return model.Patch{}, err
	}
	reply, err := s.oracle.Complete(ctx, p)
	if err != nil {
		return model.Patch{}, fmt.Errorf("sales answer: %w", err)
	}
	return model.Patch{
		Messages: []model.Message{model.AssistantMessage(reply)},
		NextStep: model.Set(model.StageNone),
	}, nil
}

func wantsAlternatives(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "other") || strings.Contains(lower, "different")
}
