package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/graph"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/graph/conversations"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/graph/nodes"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/model"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/pricing"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/repo"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/retrieval"
	"github.com/Chative-core-poc-v1/policy-advisor/internal/core"
	logx "github.com/Chative-core-poc-v1/policy-advisor/pkg/logger"
	pkgredis "github.com/Chative-core-poc-v1/policy-advisor/pkg/redis"
)

// AppConfig defines all configurable parameters of the advisor,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`
	Quiet       bool   `envconfig:"LOG_QUIET" default:"true"`

	// Infrastructure; sessions stay in memory when REDIS_URL is empty.
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Oracle    model.OracleModelConfig
	Embedding model.EmbeddingConfig
	Policy    model.PolicyConfig
	Analyst   model.AnalystConfig
	Session   model.SessionConfig

	WatchPolicies  bool   `envconfig:"POLICIES_WATCH" default:"false"`
	ConversationID string `envconfig:"CONVERSATION_ID" default:"cli-session"`
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env file: %v\n", err)
	}

	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to process environment config: %v\n", err)
		os.Exit(1)
	}

	logx.Init(logx.LoggerOpts{
		Environment: core.ParseEnvironment(envCfg.Environment),
		Quiet:       envCfg.Quiet,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, envCfg); err != nil {
		logx.Fatal().Err(err).Msg("Advisor stopped")
	}
}

func run(ctx context.Context, envCfg AppConfig) error {
	sessions, closeSessions, err := newSessionRepository(ctx, envCfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	client, err := nodes.NewGeminiClient(ctx, envCfg.APIKey, envCfg.BaseURL)
	if err != nil {
		return err
	}

	embedder, err := retrieval.NewGeminiEmbedder(client, envCfg.Embedding.Model, envCfg.Embedding.CacheSize)
	if err != nil {
		return err
	}
	store := retrieval.NewMemoryStore(embedder)
	chunking := retrieval.Chunking{Size: envCfg.Policy.ChunkSize, Overlap: envCfg.Policy.ChunkOverlap}

	files, err := retrieval.Seed(ctx, store, envCfg.Policy.Dir, chunking)
	if err != nil {
		logx.Warn().Err(err).Str("dir", envCfg.Policy.Dir).Msg("Policy directory could not be indexed")
	}
	logx.Info().Int("files", files).Int("chunks", store.Len()).Msg("Policy store ready")

	if envCfg.WatchPolicies {
		w, err := retrieval.NewWatcher(store, envCfg.Policy.Dir, chunking)
		if err != nil {
			logx.Warn().Err(err).Msg("Policy watcher disabled")
		} else {
			defer w.Close()
			go w.Run(ctx)
		}
	}

	rules, err := pricing.Load(envCfg.Policy.RulesFile)
	if err != nil {
		return err
	}

	runner, err := graph.BuildAdvisorGraph(ctx, graph.Config{
		APIKey:      envCfg.APIKey,
		BaseURL:     envCfg.BaseURL,
		Client:      client,
		Oracle:      envCfg.Oracle,
		Analyst:     envCfg.Analyst,
		Session:     envCfg.Session,
		SessionRepo: sessions,
		Policies:    store,
		Rules:       rules,
	})
	if err != nil {
		return err
	}

	return chat(ctx, runner, envCfg.ConversationID)
}

func newSessionRepository(ctx context.Context, envCfg AppConfig) (model.SessionRepository, func(), error) {
	if envCfg.Redis.URL == "" {
		logx.Info().Msg("REDIS_URL not set - keeping sessions in memory")
		return repo.NewMemorySessionRepository(), func() {}, nil
	}

	ttl, err := time.ParseDuration(envCfg.Session.TTL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid SESSION_TTL %q: %w", envCfg.Session.TTL, err)
	}

	rdb, err := envCfg.Redis.New(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialise Redis client: %w", err)
	}
	logx.Info().Msg("Connected to Redis successfully")
	return repo.NewRedisSessionRepository(rdb, ttl), func() { _ = rdb.Close() }, nil
}

// chat reads user turns from stdin until EOF, "exit" or "quit".
// "/reset" starts the conversation over.
func chat(ctx context.Context, runner graph.Runner, conversationID string) error {
	fmt.Printf("Bot: %s\n", conversations.Greeting)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(text) {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "/reset":
			if err := runner.Reset(ctx, conversationID); err != nil {
				return err
			}
			fmt.Printf("Bot: %s\n", conversations.Greeting)
			continue
		}

		reply, err := runner.Invoke(ctx, model.QueryInput{ConversationID: conversationID, Query: text})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logx.Error().Err(err).Msg("Turn failed")
			fmt.Println("Bot: Sorry, something went wrong. Please try again.")
			continue
		}
		fmt.Printf("Bot: %s\n", reply)
	}
}
