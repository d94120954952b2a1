package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"doctransform/internal/config"
)

// serperClient talks to the Serper google search API (google.serper.dev).
type serperClient struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	maxResults int
}

// NewSerper builds a Serper-backed search service. Outgoing requests are
// traced via otelhttp.
func NewSerper(cfg config.SearchConfig) (Service, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &serperClient{
		httpClient: &http.Client{
			Timeout:   time.Duration(cfg.TimeoutSec) * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		maxResults: cfg.MaxResults,
	}, nil
}

type serperRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
}

type serperResponse struct {
	Organic []Result `json:"organic"`
}

func (c *serperClient) Search(ctx context.Context, query string) ([]Result, error) {
	payload, err := json.Marshal(serperRequest{Query: query, Num: c.maxResults})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search request failed: status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var parsed serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := parsed.Organic
	if len(results) > c.maxResults {
		results = results[:c.maxResults]
	}
	return results, nil
}
