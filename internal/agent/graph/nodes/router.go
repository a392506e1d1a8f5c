package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/model"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/taxonomy"
	logx "github.com/Chative-core-poc-v1/policy-advisor/pkg/logger"
)

// Extractor is the structured-extraction surface of the oracle.
type Extractor interface {
	CheckConfirmation(ctx context.Context, userText, category string) (model.ExtractionResult, error)
	ClassifyAndExtract(ctx context.Context, userText, category string, fields []string) (model.ExtractionResult, error)
}

// Router decides, once per user turn, which stage runs next and how the
// newest message changes the profile.
type Router struct {
	extractor    Extractor
	taxonomy     *taxonomy.Taxonomy
	maxReentries int
}

func NewRouter(ex Extractor, tx *taxonomy.Taxonomy, maxReentries int) *Router {
	return &Router{extractor: ex, taxonomy: tx, maxReentries: normalizeMaxReentries(maxReentries)}
}

// Run applies router decisions to the turn until one names a stage other
// than the router. Re-entry is bounded; past the bound the category is
// force-confirmed and the general branch decides.
func (r *Router) Run(ctx context.Context, t *model.Turn) error {
	for {
		p, err := r.Decide(ctx, t.State)
		if err != nil {
			return err
		}
		t.Apply(p)
		if t.State.NextStep != model.StageRouter {
			return nil
		}
		if incrementReentryAndCheck(t, r.maxReentries) {
			logx.Warn().
				Str("conversation_id", t.ConversationID).
				Int("reentries", t.Reentries).
				Int("max_reentries", r.maxReentries).
				Msg("Router re-entry limit exceeded - forcing confirmation")
			t.Apply(forceConfirm(t.State))
			p, err := r.decideGeneral(ctx, t.State)
			if err != nil {
				return err
			}
			t.Apply(p)
			return nil
		}
	}
}

// Decide computes one routing patch for state. It never mutates state.
func (r *Router) Decide(ctx context.Context, s model.DialogueState) (model.Patch, error) {
	if s.CurrentCategory != "" && !s.CategoryConfirmed && s.LastAskedField == model.AskedCategoryConfirmation {
		return r.decideConfirmation(ctx, s)
	}
	return r.decideGeneral(ctx, s)
}

func (r *Router) decideConfirmation(ctx context.Context, s model.DialogueState) (model.Patch, error) {
	res, err := r.extractor.CheckConfirmation(ctx, s.LastUserMessage(), s.CurrentCategory)
	if err != nil {
		return model.Patch{}, fmt.Errorf("router confirmation check: %w", err)
	}

	if res.IsConfirmed() {
		logx.Debug().Str("category", s.CurrentCategory).Msg("Category confirmed")
		return confirmPatch(), nil
	}
	if corrected := r.taxonomy.Canonical(res.NewCategory); corrected != "" {
		if strings.EqualFold(corrected, s.CurrentCategory) {
			logx.Debug().Str("category", s.CurrentCategory).Msg("Correction names the proposed category - treating as confirmed")
			return confirmPatch(), nil
		}
		logx.Debug().Str("from", s.CurrentCategory).Str("to", corrected).Msg("Category corrected")
		return model.SwitchCategory(corrected, res.ExtractedData), nil
	}

	// TODO: ask again instead of confirming once product decides how to treat ambiguous replies.
	logx.Warn().Str("category", s.CurrentCategory).Msg("Confirmation reply was neither yes nor a correction - assuming confirmed")
	return confirmPatch(), nil
}

func (r *Router) decideGeneral(ctx context.Context, s model.DialogueState) (model.Patch, error) {
	category := s.CurrentCategory
	var fields []string
	if category != "" {
		fields = r.taxonomy.RequiredFields(category)
	}

	res, err := r.extractor.ClassifyAndExtract(ctx, s.LastUserMessage(), category, fields)
	if err != nil {
		return model.Patch{}, fmt.Errorf("router intent extraction: %w", err)
	}

	if next := r.taxonomy.Canonical(res.NewCategory); next != "" && !strings.EqualFold(next, category) {
		logx.Debug().Str("from", category).Str("to", next).Msg("Category switch detected")
		return model.SwitchCategory(next, res.ExtractedData), nil
	}

	collected := model.MergeProfile(s.CollectedData, res.ExtractedData)
	p := model.Patch{CollectedData: model.Set(collected)}

	switch {
	case category == "":
		p.NextStep = model.Set(model.StageCollector)
	case !s.CategoryConfirmed:
		p.NextStep = model.Set(model.StageCollector)
	case s.HasRecommendation():
		p.NextStep = model.Set(model.StageSales)
	default:
		missing := model.MissingFrom(r.taxonomy.RequiredFields(category), collected)
		p.MissingFields = model.Set(missing)
		if len(missing) > 0 {
			p.NextStep = model.Set(model.StageCollector)
		} else {
			p.NextStep = model.Set(model.StageAnalyst)
		}
	}

	next, _ := p.NextStep.Get()
	logx.Debug().
		Str("category", category).
		Bool("confirmed", s.CategoryConfirmed).
		Int("profile_fields", len(collected)).
		Str("next_step", next.String()).
		Msg("Routing decision")
	return p, nil
}

func confirmPatch() model.Patch {
	return model.Patch{
		CategoryConfirmed: model.Set(true),
		LastAskedField:    model.Set(model.AskedNothing),
		NextStep:          model.Set(model.StageRouter),
	}
}

func forceConfirm(s model.DialogueState) model.Patch {
	return model.Patch{
		CategoryConfirmed: model.Set(s.CurrentCategory != ""),
		LastAskedField:    model.Set(model.AskedNothing),
	}
}
