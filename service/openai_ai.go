package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/tieubaoca/docsum-be/config"
	"github.com/tieubaoca/docsum-be/metrics"
	"go.uber.org/zap"
)

// OpenAIService talks to any OpenAI-compatible chat-completion endpoint (Groq by default).
type OpenAIService struct {
	client      *openai.Client
	provider    string
	model       string
	temperature float32
	logger      *zap.Logger
}

func NewOpenAIService(cfg config.LLMConfig, logger *zap.Logger) *OpenAIService {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAIService{
		client:      openai.NewClientWithConfig(clientConfig),
		provider:    cfg.Provider,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

func (s *OpenAIService) Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	start := time.Now()
	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       s.model,
			Temperature: s.temperature,
			MaxTokens:   maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
		},
	)
	metrics.LLMCallDuration.WithLabelValues(s.provider, s.model).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(s.provider, s.model, "error").Inc()
		return "", err
	}
	if len(resp.Choices) == 0 {
		metrics.LLMCallTotal.WithLabelValues(s.provider, s.model, "error").Inc()
		return "", errors.New("no response generated")
	}
	metrics.LLMCallTotal.WithLabelValues(s.provider, s.model, "success").Inc()

	s.logger.Debug("Chat completion finished",
		zap.String("model", s.model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("latency", time.Since(start)))
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
