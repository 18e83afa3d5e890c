// Package recommend answers free-text drink requests with a Gemini chat
// model grounded on the full drink catalog.
package recommend

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/drinkcal-bot/server/internal/bot/model"
	logx "github.com/drinkcal-bot/server/pkg/logger"
)

// Config holds the Gemini client and model settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   model.RecommendModelConfig
}

// GeminiRecommender implements model.Recommender with an Eino Gemini chat
// model. The catalog is captured at construction; the dataset is immutable
// for the process lifetime.
type GeminiRecommender struct {
	chatModel *gemini.ChatModel
	catalog   model.Catalog
}

func NewGeminiRecommender(ctx context.Context, cfg Config, catalog model.Catalog) (*GeminiRecommender, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model.Model,
		Temperature: &cfg.Model.Temperature,
		MaxTokens:   &cfg.Model.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating recommendation model")
		return nil, fmt.Errorf("error creating recommendation model: %w", err)
	}

	return &GeminiRecommender{chatModel: chatModel, catalog: catalog}, nil
}

// Recommend forwards the user's verbatim request under the catalog-seeded
// system prompt and returns the model's answer text.
func (g *GeminiRecommender) Recommend(ctx context.Context, query string) (string, error) {
	systemPrompt, err := renderSystemPrompt(ctx, g.catalog.All())
	if err != nil {
		return "", err
	}

	out, err := g.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(query),
	})
	if err != nil {
		logx.Error().Err(err).Msg("recommendation generation failed")
		return "", fmt.Errorf("generate recommendation: %w", err)
	}
	if out == nil || out.Content == "" {
		return "", fmt.Errorf("generate recommendation: empty response")
	}
	return out.Content, nil
}

var _ model.Recommender = (*GeminiRecommender)(nil)
