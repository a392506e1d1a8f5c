package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/model"
	logx "github.com/Chative-core-poc-v1/policy-advisor/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey  string
	BaseURL string
	Oracle  *model.OracleModelConfig
	// Client is reused when set; otherwise one is created from APIKey and BaseURL.
	Client *genai.Client
}

// ChatModels holds the Gemini client and the oracle chat model built on it.
type ChatModels struct {
	Client          *genai.Client
	Oracle          *gemini.ChatModel
	OracleModelName string
}

// NewGeminiClient creates the shared Gemini API client.
func NewGeminiClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions.BaseURL = baseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}
	return client, nil
}

// NewChatModels creates the oracle chat model with the given configuration
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	if config.Oracle == nil {
		return nil, fmt.Errorf("oracle model config is nil")
	}

	client := config.Client
	if client == nil {
		var err error
		client, err = NewGeminiClient(ctx, config.APIKey, config.BaseURL)
		if err != nil {
			return nil, err
		}
	}

	oracle, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Oracle.Model,
		Temperature: &config.Oracle.Temperature,
		MaxTokens:   &config.Oracle.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(int32(1024)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating oracle model")
		return nil, fmt.Errorf("error creating oracle model: %w", err)
	}

	return &ChatModels{
		Client:          client,
		Oracle:          oracle,
		OracleModelName: config.Oracle.Model,
	}, nil
}
