package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"doctransform/internal/config"
)

// Known provider base URLs. Gemini and Ollama both expose OpenAI-compatible
// chat endpoints, so one client covers all of them.
const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	ollamaBaseURL = "http://localhost:11434/v1"
)

type openAIService struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	missingKey  bool
}

// New builds a chat-completion service from configuration. The provider name
// selects the base URL unless an explicit one is configured. A missing API
// key is not a construction error; Complete reports it per call, so the
// server still starts and the failure lands on the job.
func New(cfg config.LLMConfig) (Service, error) {
	clientCfg, err := clientConfig(cfg)
	if err != nil {
		return nil, err
	}

	return &openAIService{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		timeout:     time.Duration(cfg.TimeoutSec) * time.Second,
		missingKey:  cfg.APIKey == "" && cfg.Provider != "ollama",
	}, nil
}

func clientConfig(cfg config.LLMConfig) (openai.ClientConfig, error) {
	key := cfg.APIKey
	if key == "" {
		// the client requires a bearer token even when the provider
		// (ollama) ignores it or the real key is absent
		key = "unset"
	}

	clientCfg := openai.DefaultConfig(key)
	switch cfg.Provider {
	case "openai":
	case "gemini":
		clientCfg.BaseURL = geminiBaseURL
	case "ollama":
		clientCfg.BaseURL = ollamaBaseURL
	default:
		if cfg.BaseURL == "" {
			return openai.ClientConfig{}, fmt.Errorf("llm: unknown provider %q and no base url configured", cfg.Provider)
		}
	}
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return clientCfg, nil
}

func (s *openAIService) Complete(ctx context.Context, system, user string) (string, CallStats, error) {
	if s.missingKey {
		return "", CallStats{}, ErrMissingAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: s.temperature,
	})
	if err != nil {
		return "", CallStats{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", CallStats{}, ErrEmptyResponse
	}

	stats := CallStats{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
		Duration:         time.Since(start),
	}
	slog.Debug("llm completion",
		"model", s.model,
		"prompt_tokens", stats.PromptTokens,
		"completion_tokens", stats.CompletionTokens,
		"duration_ms", stats.Duration.Milliseconds())

	return resp.Choices[0].Message.Content, stats, nil
}
