// Package oracle adapts a text-completion model to the two structured
// extraction requests the router needs.
package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/graph/parsers"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/graph/prompts"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/model"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/taxonomy"
	errx "github.com/Chative-core-poc-v1/policy-advisor/internal/core/error"
	logx "github.com/Chative-core-poc-v1/policy-advisor/pkg/logger"
)

// Completer is the text-completion oracle: one synchronous round trip, no retries.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ChatModelCompleter sends the prompt as a single user message to an Eino chat model.
type ChatModelCompleter struct {
	model einomodel.BaseChatModel
}

func NewChatModelCompleter(m einomodel.BaseChatModel) *ChatModelCompleter {
	return &ChatModelCompleter{model: m}
}

func (c *ChatModelCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	typ, ok := components.GetType(c.model)
	if !ok {
		typ = "ChatModel"
	}
	ctx = callbacks.ReuseHandlers(ctx, &callbacks.RunInfo{
		Name:      "oracle",
		Type:      typ,
		Component: components.ComponentOfChatModel,
	})
	out, err := c.model.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", errx.WrapOracle(err)
	}
	if out == nil {
		return "", errx.WrapOracle(fmt.Errorf("empty completion"))
	}
	return out.Content, nil
}

var _ Completer = (*ChatModelCompleter)(nil)

// Extractor runs the category-confirmation check and the intent +
// extraction request against a Completer.
type Extractor struct {
	completer Completer
	taxonomy  *taxonomy.Taxonomy
}

func NewExtractor(c Completer, tx *taxonomy.Taxonomy) *Extractor {
	return &Extractor{completer: c, taxonomy: tx}
}

// CheckConfirmation asks whether userText confirms category or corrects it (Mode A).
func (e *Extractor) CheckConfirmation(ctx context.Context, userText, category string) (model.ExtractionResult, error) {
	p, err := prompts.RenderConfirmCategory(ctx, userText, category, e.taxonomy.BroadCategories())
	if err != nil {
		return model.ExtractionResult{}, err
	}
	return e.run(ctx, "confirm_category", p)
}

// ClassifyAndExtract detects a category switch and extracts values for
// fields, keyed strictly by the given field names (Mode B).
func (e *Extractor) ClassifyAndExtract(ctx context.Context, userText, category string, fields []string) (model.ExtractionResult, error) {
	p, err := prompts.RenderClassifyExtract(ctx, userText, category, fields, e.taxonomy.BroadCategories())
	if err != nil {
		return model.ExtractionResult{}, err
	}
	return e.run(ctx, "classify_extract", p)
}

func (e *Extractor) run(ctx context.Context, mode, prompt string) (model.ExtractionResult, error) {
	reply, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return model.ExtractionResult{}, fmt.Errorf("%s: %w", mode, errx.WrapOracle(err))
	}
	res := parsers.ParseExtraction(reply)
	if res.IsEmpty() && strings.TrimSpace(reply) != "" {
		logx.Debug().Str("mode", mode).Msg("oracle reply carried no usable signal")
	}
	return res, nil
}
