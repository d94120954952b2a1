package llm

import (
	"context"
	"errors"
	"time"
)

// Package llm wraps chat-completion providers behind a single interface so
// the agent pipeline does not care whether it talks to Gemini, OpenAI or a
// local Ollama instance.

var (
	// ErrMissingAPIKey is returned when the provider requires a key and none is configured.
	ErrMissingAPIKey = errors.New("llm: api key is not configured")
	// ErrEmptyResponse is returned when the provider answers with no choices.
	ErrEmptyResponse = errors.New("llm: provider returned no choices")
)

// CallStats captures token usage and latency of a single completion call.
type CallStats struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Duration         time.Duration
}

// Add accumulates usage from another call, keeping the summed duration.
func (s *CallStats) Add(other CallStats) {
	s.PromptTokens += other.PromptTokens
	s.CompletionTokens += other.CompletionTokens
	s.TotalTokens += other.TotalTokens
	s.Duration += other.Duration
}

// Service is a minimal chat-completion surface: one system prompt, one user
// prompt, one answer.
type Service interface {
	Complete(ctx context.Context, system, user string) (string, CallStats, error)
}
