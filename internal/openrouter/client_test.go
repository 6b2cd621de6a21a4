// internal/openrouter/client_test.go
package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aeolab/aeolab-workflows/internal/models"
)

const successBody = `{
	"id": "gen-123",
	"model": "openai/gpt-4o-mini",
	"choices": [{"message": {"role": "assistant", "content": "Here are some plumbers in Austin."}}],
	"usage": {"prompt_tokens": 20, "completion_tokens": 30, "total_tokens": 50}
}`

// newTestClient points a client at the test server with a recording sleep so
// tests never wait on real backoff.
func newTestClient(serverURL string, sleeps *[]time.Duration) *Client {
	return &Client{
		apiKey:     "test-key",
		siteURL:    "http://localhost:3000",
		baseURL:    serverURL,
		httpClient: &http.Client{},
		sleep: func(d time.Duration) {
			*sleeps = append(*sleeps, d)
		},
	}
}

func TestQuerySuccessFirstAttempt(t *testing.T) {
	var gotRequest Request
	var gotAuth, gotReferer, gotTitle string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		json.NewDecoder(r.Body).Decode(&gotRequest)
		w.Write([]byte(successBody))
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	result := client.Query(context.Background(), "best plumbers in Austin?", models.PlatformChatGPT)

	if !result.Success {
		t.Fatalf("expected success, got error: %v", result.ErrorMessage)
	}
	if result.ResponseText == nil || *result.ResponseText != "Here are some plumbers in Austin." {
		t.Errorf("unexpected response text: %v", result.ResponseText)
	}
	if result.TokensUsed == nil || *result.TokensUsed != 50 {
		t.Errorf("unexpected token count: %v", result.TokensUsed)
	}
	if len(sleeps) != 0 {
		t.Errorf("expected no backoff sleeps, got %v", sleeps)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReferer != "http://localhost:3000" {
		t.Errorf("HTTP-Referer = %q", gotReferer)
	}
	if gotTitle != "AEOLab" {
		t.Errorf("X-Title = %q", gotTitle)
	}
	if gotRequest.Model != "openai/gpt-4o-mini" {
		t.Errorf("model = %q", gotRequest.Model)
	}
	if gotRequest.Temperature != 0.3 || gotRequest.MaxTokens != 1000 {
		t.Errorf("sampling params = %v / %v", gotRequest.Temperature, gotRequest.MaxTokens)
	}
}

func TestQueryPlatformModelRouting(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model
		w.Write([]byte(successBody))
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	client.Query(context.Background(), "prompt", models.PlatformPerplexity)
	if gotModel != "perplexity/sonar" {
		t.Errorf("perplexity model = %q", gotModel)
	}
}

func TestQueryRetriesRateLimitThenSucceeds(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"message": "rate limited", "code": 429}}`))
			return
		}
		w.Write([]byte(successBody))
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	result := client.Query(context.Background(), "prompt", models.PlatformChatGPT)

	if !result.Success {
		t.Fatalf("expected success after retries, got: %v", result.ErrorMessage)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(sleeps) != len(want) || sleeps[0] != want[0] || sleeps[1] != want[1] {
		t.Errorf("backoff sleeps = %v, want %v", sleeps, want)
	}
}

func TestQueryExhaustsRetriesOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error": {"message": "upstream unavailable", "code": 503}}`))
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	result := client.Query(context.Background(), "prompt", models.PlatformChatGPT)

	if result.Success {
		t.Fatal("expected failure after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if result.ErrorMessage == nil || *result.ErrorMessage != "Failed after 3 attempts: upstream unavailable" {
		t.Errorf("unexpected error message: %v", result.ErrorMessage)
	}
}

func TestQueryClientErrorIsTerminal(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Invalid API key", "code": 401}}`))
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	result := client.Query(context.Background(), "prompt", models.PlatformChatGPT)

	if result.Success {
		t.Fatal("expected failure on client error")
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt for terminal error, got %d", attempts)
	}
	if result.ErrorMessage == nil || *result.ErrorMessage != "Invalid API key" {
		t.Errorf("unexpected error message: %v", result.ErrorMessage)
	}
	if len(sleeps) != 0 {
		t.Errorf("expected no backoff for terminal error, got %v", sleeps)
	}
}

func TestQueryErrorMessageFallsBackToStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	result := client.Query(context.Background(), "prompt", models.PlatformChatGPT)

	if result.Success {
		t.Fatal("expected failure")
	}
	if result.ErrorMessage == nil || *result.ErrorMessage != "HTTP 404: Not Found" {
		t.Errorf("unexpected error message: %v", result.ErrorMessage)
	}
}

func TestQueryMalformedSuccessBodyIsTerminal(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Write([]byte("{not valid json"))
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	result := client.Query(context.Background(), "prompt", models.PlatformChatGPT)

	if result.Success {
		t.Fatal("expected failure on malformed body")
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
	if result.ErrorMessage == nil || !strings.HasPrefix(*result.ErrorMessage, "Failed to parse response:") {
		t.Errorf("unexpected error message: %v", result.ErrorMessage)
	}
}

func TestQueryEmptyChoicesYieldsNilText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "gen-1", "choices": [], "usage": {"total_tokens": 0}}`))
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	result := client.Query(context.Background(), "prompt", models.PlatformChatGPT)

	if !result.Success {
		t.Fatalf("expected transport-level success, got: %v", result.ErrorMessage)
	}
	if result.ResponseText != nil {
		t.Errorf("expected nil response text, got %q", *result.ResponseText)
	}
	if result.TokensUsed != nil {
		t.Errorf("expected nil token count, got %d", *result.TokensUsed)
	}
}

func TestQueryUnknownPlatform(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	result := client.Query(context.Background(), "prompt", models.Platform("gemini"))

	if result.Success {
		t.Fatal("expected failure for unknown platform")
	}
	if attempts != 0 {
		t.Errorf("expected no HTTP calls, got %d", attempts)
	}
	if result.ErrorMessage == nil || *result.ErrorMessage != "unknown platform: gemini" {
		t.Errorf("unexpected error message: %v", result.ErrorMessage)
	}
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusNotFound, false},
		{http.StatusUnprocessableEntity, false},
	}

	for _, tt := range tests {
		if got := shouldRetry(tt.status); got != tt.want {
			t.Errorf("shouldRetry(%d) = %t, want %t", tt.status, got, tt.want)
		}
	}
}
