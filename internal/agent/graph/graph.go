package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/compose"
	"google.golang.org/genai"

	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/graph/conversations"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/graph/nodes"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/graph/observers"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/graph/oracle"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/model"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/taxonomy"
	logx "github.com/Chative-core-poc-v1/policy-advisor/pkg/logger"
)

// maxRunSteps bounds one turn: router, sales, analyst and END.
const maxRunSteps = 10

// Runner executes one user turn against a conversation.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (string, error)
	Reset(ctx context.Context, conversationID string) error
}

// Config holds everything needed to compose the advisor graph end-to-end.
// This is a convenience layer over GraphConfig that also constructs the
// oracle chat model and the stages.
type Config struct {
	APIKey  string
	BaseURL string
	// Client is shared with the embedder when set.
	Client *genai.Client

	Oracle  model.OracleModelConfig
	Analyst model.AnalystConfig
	Session model.SessionConfig

	SessionRepo model.SessionRepository
	Policies    retriever.Retriever
	Rules       nodes.RuleLookup
	// Taxonomy defaults to taxonomy.Default().
	Taxonomy *taxonomy.Taxonomy
}

// GraphConfig holds the stages wired into the graph.
type GraphConfig struct {
	Router    *nodes.Router
	Collector *nodes.Collector
	Analyst   *nodes.Analyst
	Sales     *nodes.Sales
}

// GraphBuilder handles the construction of the dialogue graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[*model.Turn, *model.Turn]
}

type graphRunner struct {
	runnable  compose.Runnable[*model.Turn, *model.Turn]
	sessions  *conversations.SessionManager
	modelName string
}

// NewRunner wraps a compiled graph with session bookkeeping.
func NewRunner(runnable compose.Runnable[*model.Turn, *model.Turn], sessions *conversations.SessionManager, modelName string) Runner {
	return &graphRunner{runnable: runnable, sessions: sessions, modelName: modelName}
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) (string, error) {
	ctx, usage := observers.WithUsage(ctx)

	turn, err := r.sessions.Begin(ctx, in.ConversationID, in.Query)
	if err != nil {
		return "", err
	}

	out, err := r.runnable.Invoke(ctx, turn, compose.WithCallbacks(observers.NewAllCallbacks(r.modelName)))
	if err != nil {
		// state is left as it was before the turn
		logx.Error().Err(err).Str("conversation_id", in.ConversationID).Msg("Turn failed")
		return "", err
	}
	if out == nil {
		out = turn
	}

	reply, err := r.sessions.Commit(ctx, out)
	if err != nil {
		return "", err
	}

	calls, promptTokens, completionTokens, cost := usage.Snapshot()
	logx.Info().
		Str("conversation_id", in.ConversationID).
		Str("category", out.State.CurrentCategory).
		Str("next_step", out.State.NextStep.String()).
		Int("oracle_calls", calls).
		Int("prompt_tokens", promptTokens).
		Int("completion_tokens", completionTokens).
		Float64("cost_usd", cost).
		Msg("Turn completed")
	return reply, nil
}

func (r *graphRunner) Reset(ctx context.Context, conversationID string) error {
	return r.sessions.Reset(ctx, conversationID)
}

// BuildAdvisorGraph composes the oracle, the stages and the session
// manager, builds the graph, and returns a Runner.
func BuildAdvisorGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.SessionRepo == nil {
		return nil, fmt.Errorf("session repo is nil")
	}
	if cfg.Policies == nil {
		return nil, fmt.Errorf("policy retriever is nil")
	}
	if cfg.Rules == nil {
		return nil, fmt.Errorf("pricing rules are nil")
	}
	tx := cfg.Taxonomy
	if tx == nil {
		tx = taxonomy.Default()
	}

	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Oracle:  &cfg.Oracle,
		Client:  cfg.Client,
	})
	if err != nil {
		return nil, err
	}
	completer := oracle.NewChatModelCompleter(cms.Oracle)

	runnable, err := BuildGraph(ctx, &GraphConfig{
		Router:    nodes.NewRouter(oracle.NewExtractor(completer, tx), tx, cfg.Session.MaxReentries),
		Collector: nodes.NewCollector(completer, tx),
		Analyst:   nodes.NewAnalyst(cfg.Policies, cfg.Rules, tx, completer, cfg.Analyst),
		Sales:     nodes.NewSales(completer),
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Advisor graph built successfully")
	return NewRunner(runnable, conversations.NewSessionManager(cfg.SessionRepo), cms.OracleModelName), nil
}

// BuildGraph constructs and returns the compiled dialogue graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[*model.Turn, *model.Turn], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.Router == nil || config.Collector == nil || config.Analyst == nil || config.Sales == nil {
		return nil, fmt.Errorf("graph stages are not properly initialized")
	}

	builder := &GraphBuilder{
		config: config,
		graph:  compose.NewGraph[*model.Turn, *model.Turn](),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all stage nodes to the graph
func (b *GraphBuilder) addNodes() error {
	steps := []struct {
		name   string
		lambda *compose.Lambda
	}{
		{nodes.NodeRouter, nodes.NewRouterNode(b.config.Router)},
		{nodes.NodeCollector, nodes.NewCollectorNode(b.config.Collector)},
		{nodes.NodeAnalyst, nodes.NewAnalystNode(b.config.Analyst)},
		{nodes.NodeSales, nodes.NewSalesNode(b.config.Sales)},
	}
	for _, s := range steps {
		if err := b.graph.AddLambdaNode(s.name, s.lambda, compose.WithNodeName(s.name)); err != nil {
			logx.Error().Err(err).Str("node", s.name).Msg("Error adding node")
			return fmt.Errorf("error adding node %s: %w", s.name, err)
		}
	}
	return nil
}

// addEdges creates the fixed connections between nodes
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeRouter},
		{nodes.NodeCollector, compose.END},
		{nodes.NodeAnalyst, compose.END},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			logx.Error().Err(err).Str("from", edge[0]).Str("to", edge[1]).Msg("Error adding edge")
			return fmt.Errorf("error adding edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// addBranches creates conditional routing branches
func (b *GraphBuilder) addBranches() error {
	routerBranch := compose.NewGraphBranch(
		nodes.NewRouterCondition(),
		map[string]bool{
			nodes.NodeCollector: true,
			nodes.NodeAnalyst:   true,
			nodes.NodeSales:     true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeRouter, routerBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding router branch")
		return fmt.Errorf("error adding router branch: %w", err)
	}

	salesBranch := compose.NewGraphBranch(
		nodes.NewSalesCondition(),
		map[string]bool{
			nodes.NodeAnalyst: true,
			compose.END:       true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeSales, salesBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding sales branch")
		return fmt.Errorf("error adding sales branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[*model.Turn, *model.Turn], error) {
	runnable, err := b.graph.Compile(ctx,
		compose.WithGraphName("policy_advisor"),
		compose.WithMaxRunSteps(maxRunSteps),
	)
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
