package prompts

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

var (
	//go:embed template/confirm_category.txt
	confirmCategoryPrompt string
	//go:embed template/classify_extract.txt
	classifyExtractPrompt string
	//go:embed template/bulk_questions.txt
	bulkQuestionsPrompt string
	//go:embed template/analyst_single.txt
	analystSinglePrompt string
	//go:embed template/analyst_multi.txt
	analystMultiPrompt string
	//go:embed template/sales.txt
	salesPrompt string
)

// render formats a Go template through the Eino prompt component so that
// prompt callbacks fire for every rendered prompt.
func render(ctx context.Context, name, tplText string, vars map[string]any) (string, error) {
	ctx = callbacks.ReuseHandlers(ctx, &callbacks.RunInfo{
		Name:      name,
		Type:      "GoTemplate",
		Component: components.ComponentOfPrompt,
	})
	tpl := prompt.FromMessages(schema.GoTemplate, schema.UserMessage(tplText))
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("%s prompt render: %w", name, err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("%s prompt render: empty result", name)
	}
	return msgs[0].Content, nil
}

// RenderConfirmCategory renders the category-confirmation check (Mode A).
func RenderConfirmCategory(ctx context.Context, userText, category string, categories []string) (string, error) {
	return render(ctx, "confirm_category", confirmCategoryPrompt, map[string]any{
		"UserText":   userText,
		"Category":   category,
		"Categories": strings.Join(categories, ", "),
	})
}

// RenderClassifyExtract renders the intent + extraction request (Mode B).
func RenderClassifyExtract(ctx context.Context, userText, category string, fields, categories []string) (string, error) {
	if category == "" {
		category = "None"
	}
	return render(ctx, "classify_extract", classifyExtractPrompt, map[string]any{
		"UserText":   userText,
		"Category":   category,
		"Fields":     quoteList(fields),
		"HasFields":  len(fields) > 0,
		"Categories": strings.Join(categories, ", "),
	})
}

// RenderBulkQuestions renders the numbered-question request for missing fields.
func RenderBulkQuestions(ctx context.Context, category string, fields []string) (string, error) {
	return render(ctx, "bulk_questions", bulkQuestionsPrompt, map[string]any{
		"Category": category,
		"Fields":   strings.Join(fields, ", "),
	})
}

// RecommendationInput feeds the Analyst prompts.
type RecommendationInput struct {
	Category   string
	Profile    map[string]string
	Context    string
	Rules      string
	Count      int
	MaxOptions int
}

// RenderRecommendation picks the single-policy template for exactly one
// match and the multi-policy template otherwise.
func RenderRecommendation(ctx context.Context, in RecommendationInput) (string, error) {
	vars := map[string]any{
		"Category":   in.Category,
		"Profile":    profileJSON(in.Profile),
		"Context":    in.Context,
		"Rules":      in.Rules,
		"Count":      in.Count,
		"MaxOptions": in.MaxOptions,
	}
	if in.Count == 1 {
		return render(ctx, "analyst_single", analystSinglePrompt, vars)
	}
	return render(ctx, "analyst_multi", analystMultiPrompt, vars)
}

// SalesInput feeds the follow-up question prompt.
type SalesInput struct {
	Context  string
	Rules    string
	Profile  map[string]string
	Question string
}

// RenderSales renders the follow-up answer prompt. Without rule text the
// prompt tells the model to decline numeric premiums.
func RenderSales(ctx context.Context, in SalesInput) (string, error) {
	return render(ctx, "sales", salesPrompt, map[string]any{
		"Context":  in.Context,
		"Rules":    in.Rules,
		"HasRules": strings.TrimSpace(in.Rules) != "",
		"Profile":  profileJSON(in.Profile),
		"Question": in.Question,
	})
}

func profileJSON(p map[string]string) string {
	if p == nil {
		p = map[string]string{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = "'" + it + "'"
	}
	return strings.Join(quoted, ", ")
}
