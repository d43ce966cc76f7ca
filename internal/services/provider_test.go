package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepmate/interview-gateway/internal/config"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   ErrorKind
	}{
		{"429", http.StatusTooManyRequests, "", ErrRateLimited},
		{"401", http.StatusUnauthorized, "", ErrUnauthorized},
		{"403", http.StatusForbidden, "", ErrUnauthorized},
		{"rate limit wording", http.StatusBadRequest, `{"error":"Rate limit reached for model"}`, ErrRateLimited},
		{"quota wording", http.StatusServiceUnavailable, `{"error":"quota exceeded for project"}`, ErrRateLimited},
		{"plain 500", http.StatusInternalServerError, "internal error", ErrTransient},
		{"plain 400", http.StatusBadRequest, "bad request", ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyStatus(tt.status, []byte(tt.body)))
		})
	}
}

func TestHTTPCompletionClientSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"choices":[{"message":{"content":"What is a channel?"}}]}`))
	}))
	defer server.Close()

	client := NewHTTPCompletionClient(time.Second)
	result := client.Call(context.Background(), Provider{
		Name:    "test",
		BaseURL: server.URL,
		APIKey:  "secret",
		Model:   "test-model",
	}, CompletionRequest{Prompt: "ask something", MaxTokens: 256, Temperature: 0.7})

	require.True(t, result.Ok())
	assert.Equal(t, "What is a channel?", result.Text)
}

func TestHTTPCompletionClientRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
	}))
	defer server.Close()

	client := NewHTTPCompletionClient(time.Second)
	result := client.Call(context.Background(), Provider{Name: "test", BaseURL: server.URL, APIKey: "k"}, CompletionRequest{})

	require.False(t, result.Ok())
	assert.Equal(t, ErrRateLimited, result.Err.Kind)
}

func TestHTTPCompletionClientEmptyCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"   "}}]}`))
	}))
	defer server.Close()

	client := NewHTTPCompletionClient(time.Second)
	result := client.Call(context.Background(), Provider{Name: "test", BaseURL: server.URL, APIKey: "k"}, CompletionRequest{})

	require.False(t, result.Ok())
	assert.Equal(t, ErrMalformed, result.Err.Kind)
}

func TestHTTPCompletionClientNetworkFailure(t *testing.T) {
	client := NewHTTPCompletionClient(100 * time.Millisecond)
	result := client.Call(context.Background(), Provider{
		Name:    "test",
		BaseURL: "http://127.0.0.1:1/v1/chat/completions",
		APIKey:  "k",
	}, CompletionRequest{})

	require.False(t, result.Ok())
	assert.Equal(t, ErrTransient, result.Err.Kind)
}

func TestNewProviderRegistryPreservesOrder(t *testing.T) {
	registry := NewProviderRegistry([]config.ProviderConfig{
		{Name: "first", APIKey: "k1"},
		{Name: "second"},
		{Name: "third", APIKey: "k3"},
	})

	require.Len(t, registry, 3)
	assert.Equal(t, "first", registry[0].Name)
	assert.True(t, registry[0].Enabled())
	assert.False(t, registry[1].Enabled())
	assert.Equal(t, "third", registry[2].Name)
}
