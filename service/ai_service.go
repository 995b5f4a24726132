package service

import (
	"context"
	"fmt"

	"github.com/tieubaoca/docsum-be/config"
	"go.uber.org/zap"
)

// LLMGateway sends one prompt to a remote chat-completion service and returns the
// generated text. Implementations make a single attempt; errors propagate unchanged.
type LLMGateway interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

// NewLLMGateway builds the gateway for the configured provider. It returns a nil
// gateway and no error when no API key is configured, so the server can still start.
func NewLLMGateway(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (LLMGateway, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	switch cfg.Provider {
	case config.ProviderGemini:
		gemini, err := NewGeminiService(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return gemini, nil
	case config.ProviderGroq, config.ProviderOpenAI:
		return NewOpenAIService(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
