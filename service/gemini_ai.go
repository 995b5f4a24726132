package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/tieubaoca/docsum-be/config"
	"github.com/tieubaoca/docsum-be/metrics"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiService implements LLMGateway on the Gemini API.
type GeminiService struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

func NewGeminiService(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (*GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("no API key provided")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}
	return &GeminiService{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger,
	}, nil
}

func (s *GeminiService) Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	model := s.client.GenerativeModel(s.model)
	model.SetTemperature(s.temperature)
	if maxTokens > 0 {
		model.SetMaxOutputTokens(int32(maxTokens))
	}
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	metrics.LLMCallDuration.WithLabelValues(config.ProviderGemini, s.model).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(config.ProviderGemini, s.model, "error").Inc()
		return "", err
	}
	if len(resp.Candidates) == 0 {
		metrics.LLMCallTotal.WithLabelValues(config.ProviderGemini, s.model, "error").Inc()
		return "", errors.New("no response generated")
	}
	metrics.LLMCallTotal.WithLabelValues(config.ProviderGemini, s.model, "success").Inc()

	var content strings.Builder
	if cand := resp.Candidates[0]; cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content.WriteString(string(text))
			}
		}
	}
	s.logger.Debug("Gemini generation finished", zap.String("model", s.model), zap.Duration("latency", time.Since(start)))
	return strings.TrimSpace(content.String()), nil
}

func (s *GeminiService) Close() error {
	return s.client.Close()
}
