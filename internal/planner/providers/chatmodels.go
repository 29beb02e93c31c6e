package providers

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/stayconcierge/server/internal/planner/model"
	logx "github.com/stayconcierge/server/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey         string
	BaseURL        string
	RouterConfig   *model.RouterModelConfig
	AnswerConfig   *model.AnswerModelConfig
	ComposerConfig *model.ComposerModelConfig
}

// ChatModels holds the three chat models the engine runs on: a cheap
// deterministic classifier, a streaming answer model, and the final plan
// composer.
type ChatModels struct {
	Router   *gemini.ChatModel
	Answer   *gemini.ChatModel
	Composer *gemini.ChatModel
	Client   *genai.Client
}

// NewChatModels creates all chat models over one shared Gemini client.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	routerModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.RouterConfig.Model,
		Temperature: &config.RouterConfig.Temperature,
		MaxTokens:   &config.RouterConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating router model")
		return nil, fmt.Errorf("error creating router model: %w", err)
	}

	answerModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.AnswerConfig.Model,
		Temperature: &config.AnswerConfig.Temperature,
		MaxTokens:   &config.AnswerConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating answer model")
		return nil, fmt.Errorf("error creating answer model: %w", err)
	}

	composerModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.ComposerConfig.Model,
		Temperature: &config.ComposerConfig.Temperature,
		MaxTokens:   &config.ComposerConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating composer model")
		return nil, fmt.Errorf("error creating composer model: %w", err)
	}

	return &ChatModels{
		Router:   routerModel,
		Answer:   answerModel,
		Composer: composerModel,
		Client:   client,
	}, nil
}
