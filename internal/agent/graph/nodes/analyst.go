package nodes

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"

	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/graph/prompts"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/model"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/retrieval"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/taxonomy"
	errx "github.com/Chative-core-poc-v1/policy-advisor/internal/core/error"
	logx "github.com/Chative-core-poc-v1/policy-advisor/pkg/logger"
)

// supplementBelowSources triggers the broader supplementary search when the
// filtered search found fewer distinct sources. Independent of MaxOptions.
const supplementBelowSources = 3

// RuleLookup resolves the pricing rule text for a document source.
type RuleLookup interface {
	Lookup(source string) (text string, found bool)
}

// Analyst searches the policy store and produces a priced recommendation.
type Analyst struct {
	store    retriever.Retriever
	rules    RuleLookup
	taxonomy *taxonomy.Taxonomy
	oracle   Completer
	cfg      model.AnalystConfig
}

func NewAnalyst(store retriever.Retriever, rules RuleLookup, tx *taxonomy.Taxonomy, c Completer, cfg model.AnalystConfig) *Analyst {
	def := model.DefaultAnalystConfig()
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}
	if cfg.SupplementTopK <= 0 {
		cfg.SupplementTopK = def.SupplementTopK
	}
	if cfg.MaxOptions <= 0 {
		cfg.MaxOptions = def.MaxOptions
	}
	if cfg.ContentWindow <= 0 {
		cfg.ContentWindow = def.ContentWindow
	}
	return &Analyst{store: store, rules: rules, taxonomy: tx, oracle: c, cfg: cfg}
}

type policyOption struct {
	source  string
	content string
}

// Analyze runs retrieval and recommendation for the current category.
func (a *Analyst) Analyze(ctx context.Context, s model.DialogueState) (model.Patch, error) {
	category := s.CurrentCategory
	subcategories := a.taxonomy.SpecificSubcategories(category)

	docs, err := a.search(ctx, profileQuery(category, s.CollectedData), a.cfg.TopK, subcategories)
	if err != nil {
		return model.Patch{}, err
	}

	var (
		options []policyOption
		seen    = map[string]bool{}
		logic   strings.Builder
	)
	for _, doc := range docs {
		source := retrieval.Source(doc)
		if len(subcategories) > 0 && !slices.Contains(subcategories, retrieval.Category(doc)) {
			continue
		}
		if seen[source] {
			continue
		}
		seen[source] = true
		options = append(options, policyOption{source: source, content: doc.Content})

		if rule, ok := a.rules.Lookup(source); ok {
			fmt.Fprintf(&logic, "\nPRICING RULE FOR '%s':\n%s\n", source, rule)
		} else {
			fmt.Fprintf(&logic, "\nNO RULE FOUND FOR '%s'.\n", source)
		}
	}

	if len(options) < supplementBelowSources {
		extra, err := a.store.Retrieve(ctx, category+" insurance policy features", retriever.WithTopK(a.cfg.SupplementTopK))
		if err != nil {
			logx.Warn().Err(err).Str("category", category).Msg("Supplementary policy search failed")
		}
		for _, doc := range extra {
			source := retrieval.Source(doc)
			if seen[source] {
				continue
			}
			seen[source] = true
			options = append(options, policyOption{source: source, content: doc.Content})
		}
	}

	logx.Debug().Str("category", category).Int("policies", len(options)).Msg("Policy search finished")

	if len(options) == 0 {
		return model.Patch{
			Messages: []model.Message{model.AssistantMessage(fmt.Sprintf(
				"I searched the database but couldn't find any %s policies. Please try a different category.", category))},
			RecommendedPlan: model.Set(model.PlanDone),
			PolicyContext:   model.Set(model.Ptr("")),
			LogicContext:    model.Set(model.Ptr("")),
			NextStep:        model.Set(model.StageNone),
		}, nil
	}

	policyContext := a.contextBlock(options)
	logicContext := logic.String()

	p, err := prompts.RenderRecommendation(ctx, prompts.RecommendationInput{
		Category:   category,
		Profile:    s.CollectedData,
		Context:    policyContext,
		Rules:      logicContext,
		Count:      len(options),
		MaxOptions: a.cfg.MaxOptions,
	})
	if err != nil {
		return model.Patch{}, err
	}
	reply, err := a.oracle.Complete(ctx, p)
	if err != nil {
		return model.Patch{}, fmt.Errorf("analyst recommendation: %w", err)
	}

	return model.Patch{
		Messages:        []model.Message{model.AssistantMessage(reply)},
		RecommendedPlan: model.Set(model.PlanDone),
		PolicyContext:   model.Set(model.Ptr(policyContext)),
		LogicContext:    model.Set(model.Ptr(logicContext)),
		NextStep:        model.Set(model.StageNone),
	}, nil
}

// search runs a filtered query and falls back to an unfiltered one when the
// store rejects the filter.
func (a *Analyst) search(ctx context.Context, query string, k int, categories []string) ([]*schema.Document, error) {
	if len(categories) > 0 {
		docs, err := a.store.Retrieve(ctx, query, retriever.WithTopK(k), retrieval.WithCategories(categories...))
		if err == nil {
			return docs, nil
		}
		ev := logx.Warn().Err(err).Strs("categories", categories)
		if errors.Is(err, retrieval.ErrFilterUnsupported) {
			ev.Msg("Store does not support category filter - using broad search")
		} else {
			ev.Msg("Filtered policy search failed - using broad search")
		}
	}
	docs, err := a.store.Retrieve(ctx, query, retriever.WithTopK(k))
	if err != nil {
		return nil, errx.WrapRetriever(fmt.Errorf("policy search: %w", err))
	}
	return docs, nil
}

func (a *Analyst) contextBlock(options []policyOption) string {
	var b strings.Builder
	for i, opt := range options {
		if i >= a.cfg.MaxOptions {
			break
		}
		fmt.Fprintf(&b, "\n--- POLICY OPTION %d: %s ---\n%s...\n", i+1, opt.source, truncateRunes(opt.content, a.cfg.ContentWindow))
	}
	return b.String()
}

// profileQuery builds the semantic query from the category and every
// collected value, in key order.
func profileQuery(category string, profile map[string]string) string {
	keys := make([]string, 0, len(profile))
	for k := range profile {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(category)
	b.WriteString(" insurance policy features coverage")
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(profile[k])
	}
	return b.String()
}
