package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/model"
	logx "github.com/Chative-core-poc-v1/policy-advisor/pkg/logger"
)

// Graph node names; each matches the Stage it runs.
const (
	NodeRouter    = "router"
	NodeCollector = "collector"
	NodeAnalyst   = "analyst"
	NodeSales     = "sales"
)

// NodeFor maps a routable stage to its node name.
func NodeFor(s model.Stage) (string, error) {
	switch s {
	case model.StageCollector:
		return NodeCollector, nil
	case model.StageAnalyst:
		return NodeAnalyst, nil
	case model.StageSales:
		return NodeSales, nil
	}
	return "", fmt.Errorf("stage %q is not a routable node", s.String())
}

// NewRouterNode wraps the Router as a graph lambda.
func NewRouterNode(r *Router) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, t *model.Turn) (*model.Turn, error) {
		if err := r.Run(ctx, t); err != nil {
			return nil, fmt.Errorf("router: %w", err)
		}
		return t, nil
	})
}

// NewCollectorNode wraps the Collector as a graph lambda.
func NewCollectorNode(c *Collector) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, t *model.Turn) (*model.Turn, error) {
		p, err := c.Collect(ctx, t.State)
		if err != nil {
			return nil, fmt.Errorf("collector: %w", err)
		}
		t.Apply(p)
		tag, _ := p.LastAskedField.Get()
		logx.Debug().
			Str("conversation_id", t.ConversationID).
			Str("node", NodeCollector).
			Str("asked", string(tag)).
			Msg("Question emitted")
		return t, nil
	})
}

// NewAnalystNode wraps the Analyst as a graph lambda.
func NewAnalystNode(a *Analyst) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, t *model.Turn) (*model.Turn, error) {
		p, err := a.Analyze(ctx, t.State)
		if err != nil {
			return nil, fmt.Errorf("analyst: %w", err)
		}
		t.Apply(p)
		logx.Debug().
			Str("conversation_id", t.ConversationID).
			Str("node", NodeAnalyst).
			Str("category", t.State.CurrentCategory).
			Msg("Recommendation emitted")
		return t, nil
	})
}

// NewSalesNode wraps the Sales stage as a graph lambda.
func NewSalesNode(s *Sales) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, t *model.Turn) (*model.Turn, error) {
		p, err := s.Answer(ctx, t.State)
		if err != nil {
			return nil, fmt.Errorf("sales: %w", err)
		}
		t.Apply(p)
		return t, nil
	})
}

// NewRouterCondition routes to the stage the router selected.
func NewRouterCondition() func(context.Context, *model.Turn) (string, error) {
	return func(ctx context.Context, t *model.Turn) (string, error) {
		node, err := NodeFor(t.State.NextStep)
		if err != nil {
			return "", err
		}
		logx.Debug().
			Str("conversation_id", t.ConversationID).
			Str("next_node", node).
			Msg("Routing")
		return node, nil
	}
}

// NewSalesCondition sends the turn back to the Analyst when Sales asked
// for alternatives, otherwise ends the turn.
func NewSalesCondition() func(context.Context, *model.Turn) (string, error) {
	return func(ctx context.Context, t *model.Turn) (string, error) {
		if t.State.NextStep == model.StageAnalyst {
			logx.Debug().Str("conversation_id", t.ConversationID).Msg("Sales redirecting to Analyst")
			return NodeAnalyst, nil
		}
		return compose.END, nil
	}
}
