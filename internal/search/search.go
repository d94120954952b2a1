package search

import (
	"context"
	"errors"
)

// Result is one organic web search hit.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Service performs a web search and returns ranked organic results.
type Service interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// ErrMissingAPIKey is returned when no search API key is configured.
var ErrMissingAPIKey = errors.New("search: api key is not configured")
