package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"doctransform/internal/config"
)

func TestNewSerperMissingKey(t *testing.T) {
	_, err := NewSerper(config.SearchConfig{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))

		var req serperRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "golang templates", req.Query)
		assert.Equal(t, 2, req.Num)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"organic": [
				{"title": "First", "link": "https://a.example", "snippet": "one"},
				{"title": "Second", "link": "https://b.example", "snippet": "two"},
				{"title": "Third", "link": "https://c.example", "snippet": "three"}
			]
		}`))
	}))
	defer srv.Close()

	svc, err := NewSerper(config.SearchConfig{
		APIKey:     "secret",
		Endpoint:   srv.URL,
		MaxResults: 2,
		TimeoutSec: 5,
	})
	assert.NoError(t, err)

	results, err := svc.Search(context.Background(), "golang templates")
	assert.NoError(t, err)
	if assert.Len(t, results, 2) {
		assert.Equal(t, "First", results[0].Title)
		assert.Equal(t, "https://b.example", results[1].Link)
	}
}

func TestSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	svc, err := NewSerper(config.SearchConfig{
		APIKey:     "bad",
		Endpoint:   srv.URL,
		MaxResults: 5,
		TimeoutSec: 5,
	})
	assert.NoError(t, err)

	_, err = svc.Search(context.Background(), "anything")
	assert.ErrorContains(t, err, "status 403")
}
