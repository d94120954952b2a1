package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"doctransform/internal/config"
)

func TestClientConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LLMConfig
		wantBase string
		wantErr  error
	}{
		{
			name:     "gemini provider",
			cfg:      config.LLMConfig{Provider: "gemini", APIKey: "k"},
			wantBase: geminiBaseURL,
		},
		{
			name:     "ollama provider without key",
			cfg:      config.LLMConfig{Provider: "ollama"},
			wantBase: ollamaBaseURL,
		},
		{
			name:     "explicit base url wins",
			cfg:      config.LLMConfig{Provider: "gemini", APIKey: "k", BaseURL: "http://proxy:8080/v1"},
			wantBase: "http://proxy:8080/v1",
		},
		{
			name:     "missing key still configures the provider",
			cfg:      config.LLMConfig{Provider: "gemini"},
			wantBase: geminiBaseURL,
		},
		{
			name:    "unknown provider without base url",
			cfg:     config.LLMConfig{Provider: "watson", APIKey: "k"},
			wantErr: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := clientConfig(tt.cfg)
			if tt.wantErr != nil {
				assert.Error(t, err)
				if tt.wantErr != assert.AnError {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantBase, got.BaseURL)
		})
	}
}

func TestCallStatsAdd(t *testing.T) {
	s := CallStats{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15, Duration: time.Second}
	s.Add(CallStats{PromptTokens: 1, CompletionTokens: 2, TotalTokens: 3, Duration: time.Second})

	assert.Equal(t, 11, s.PromptTokens)
	assert.Equal(t, 7, s.CompletionTokens)
	assert.Equal(t, 18, s.TotalTokens)
	assert.Equal(t, 2*time.Second, s.Duration)
}

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "hello back"}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 4, "total_tokens": 16}
		}`))
	}))
	defer srv.Close()

	svc, err := New(config.LLMConfig{
		Provider:   "custom",
		Model:      "test-model",
		APIKey:     "k",
		BaseURL:    srv.URL + "/v1",
		MaxTokens:  64,
		TimeoutSec: 5,
	})
	assert.NoError(t, err)

	out, stats, err := svc.Complete(context.Background(), "you are a test", "hello")
	assert.NoError(t, err)
	assert.Equal(t, "hello back", out)
	assert.Equal(t, 12, stats.PromptTokens)
	assert.Equal(t, 4, stats.CompletionTokens)
	assert.Equal(t, 16, stats.TotalTokens)
	assert.Greater(t, stats.Duration, time.Duration(0))
}

func TestCompleteMissingKey(t *testing.T) {
	svc, err := New(config.LLMConfig{Provider: "openai", Model: "test-model", TimeoutSec: 5})
	assert.NoError(t, err)

	_, _, err = svc.Complete(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	svc, err := New(config.LLMConfig{
		Provider:   "custom",
		Model:      "test-model",
		APIKey:     "k",
		BaseURL:    srv.URL + "/v1",
		TimeoutSec: 5,
	})
	assert.NoError(t, err)

	_, _, err = svc.Complete(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
