package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/graph/prompts"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/model"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/taxonomy"
)

// Completer is the free-text oracle used by the generating stages.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Collector turns the current state into the next question for the user.
type Collector struct {
	oracle   Completer
	taxonomy *taxonomy.Taxonomy
}

func NewCollector(c Completer, tx *taxonomy.Taxonomy) *Collector {
	return &Collector{oracle: c, taxonomy: tx}
}

// Collect asks for confirmation, a category, or the missing profile fields,
// in that order. An empty patch means there is nothing to ask.
func (c *Collector) Collect(ctx context.Context, s model.DialogueState) (model.Patch, error) {
	switch {
	case s.CurrentCategory != "" && !s.CategoryConfirmed:
		return ask(model.AskedCategoryConfirmation,
			fmt.Sprintf("It sounds like you are looking for %s Insurance. Is that correct?", s.CurrentCategory)), nil

	case s.CurrentCategory == "":
		return ask(model.AskedCategory,
			fmt.Sprintf("I can help with %s insurance. Which one are you interested in?",
				joinWithAnd(c.taxonomy.BroadCategories()))), nil

	case len(s.MissingFields) > 0:
		p, err := prompts.RenderBulkQuestions(ctx, s.CurrentCategory, s.MissingFields)
		if err != nil {
			return model.Patch{}, err
		}
		reply, err := c.oracle.Complete(ctx, p)
		if err != nil {
			return model.Patch{}, fmt.Errorf("collector bulk questions: %w", err)
		}
		question := strings.TrimSpace(strings.ReplaceAll(reply, `"`, ""))
		if question == "" {
			question = numberedQuestion(s.MissingFields)
		}
		return ask(model.AskedBulkQuestions, question), nil
	}
	return model.Patch{}, nil
}

func ask(tag model.AskedField, text string) model.Patch {
	return model.Patch{
		Messages:       []model.Message{model.AssistantMessage(text)},
		LastAskedField: model.Set(tag),
		NextStep:       model.Set(model.StageNone),
	}
}

func numberedQuestion(fields []string) string {
	var b strings.Builder
	b.WriteString("To find the right policy, could you please provide:")
	for i, f := range fields {
		fmt.Fprintf(&b, "\n%d. Your %s?", i+1, strings.ReplaceAll(f, "_", " "))
	}
	return b.String()
}
