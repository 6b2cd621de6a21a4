package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aeolab/aeolab-workflows/internal/config"
	"github.com/aeolab/aeolab-workflows/internal/models"
)

const defaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"

const (
	maxAttempts    = 3
	requestTimeout = 30 * time.Second
	maxTokens      = 1000
	temperature    = 0.3 // deterministic-leaning, not greedy
)

// backoff gaps between attempts: 1s, 2s (4s would apply to a fourth attempt)
var backoffDelays = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

// platformModels maps a platform to the model identifier routed through
// OpenRouter.
var platformModels = map[models.Platform]string{
	models.PlatformChatGPT:    "openai/gpt-4o-mini",
	models.PlatformPerplexity: "perplexity/sonar",
}

// Client talks to the OpenRouter chat-completion gateway. It owns the retry,
// backoff and per-attempt timeout policy; callers get exactly one Result per
// Query regardless of how many attempts were made. No state persists between
// calls.
type Client struct {
	apiKey     string
	siteURL    string
	baseURL    string
	httpClient *http.Client
	sleep      func(time.Duration)
}

// NewClient creates a gateway client from the injected configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiKey:     cfg.OpenRouterAPIKey,
		siteURL:    cfg.SiteURL,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
		sleep:      time.Sleep,
	}
}

// Query sends one prompt to the given platform, retrying transient upstream
// failures up to the attempt budget. Failures come back in the Result, never
// as a panic or error, so one bad call cannot abort a tracking batch.
func (c *Client) Query(ctx context.Context, prompt string, platform models.Platform) *Result {
	model, ok := platformModels[platform]
	if !ok {
		return failedResult(fmt.Sprintf("unknown platform: %s", platform))
	}

	requestBody := Request{
		Model:       model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	var lastErr string
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			c.sleep(backoffDelays[attempt-2])
		}

		resp, err := c.makeRequest(ctx, requestBody)
		if err != nil {
			// Network-level failure or timeout: always retryable.
			lastErr = err.Error()
			fmt.Printf("[OpenRouterClient] ⚠️ Attempt %d/%d failed: %v\n", attempt, maxAttempts, err)
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return c.parseSuccess(resp)
		}

		errorMessage := c.readErrorMessage(resp)
		if !shouldRetry(resp.StatusCode) {
			// Terminal client error: report immediately, no retry.
			fmt.Printf("[OpenRouterClient] ❌ Terminal error from gateway: %s\n", errorMessage)
			return failedResult(errorMessage)
		}

		lastErr = errorMessage
		fmt.Printf("[OpenRouterClient] ⚠️ Attempt %d/%d got retryable status %d\n", attempt, maxAttempts, resp.StatusCode)
	}

	if lastErr != "" {
		return failedResult(fmt.Sprintf("Failed after %d attempts: %s", maxAttempts, lastErr))
	}
	return failedResult(fmt.Sprintf("Failed after %d attempts", maxAttempts))
}

// makeRequest performs a single attempt with its own timeout.
func (c *Client) makeRequest(ctx context.Context, requestBody Request) (*http.Response, error) {
	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, "POST", c.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", c.siteURL)
	req.Header.Set("X-Title", "AEOLab")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("request timeout after %s", requestTimeout)
		}
		return nil, err
	}
	return resp, nil
}

// parseSuccess decodes a 200 response. A decode failure is terminal: the
// request already succeeded at the transport level, so it is not retried.
func (c *Client) parseSuccess(resp *http.Response) *Result {
	defer resp.Body.Close()

	var data Response
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return failedResult(fmt.Sprintf("Failed to parse response: %v", err))
	}

	var responseText *string
	if len(data.Choices) > 0 && data.Choices[0].Message.Content != "" {
		content := data.Choices[0].Message.Content
		responseText = &content
	}

	var tokensUsed *int
	if data.Usage.TotalTokens > 0 {
		total := data.Usage.TotalTokens
		tokensUsed = &total
	}

	return &Result{
		Success:      true,
		ResponseText: responseText,
		TokensUsed:   tokensUsed,
	}
}

// readErrorMessage extracts the gateway's error message from a non-200
// response, falling back to the HTTP status line.
func (c *Client) readErrorMessage(resp *http.Response) string {
	defer resp.Body.Close()

	errorMessage := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))

	var errorData ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errorData); err == nil && errorData.Error.Message != "" {
		errorMessage = errorData.Error.Message
	}
	return errorMessage
}

// shouldRetry reports whether a status code is a transient upstream failure.
// 429 and 5xx retry; other 4xx are terminal.
func shouldRetry(statusCode int) bool {
	if statusCode == http.StatusTooManyRequests {
		return true
	}
	if statusCode >= 500 && statusCode < 600 {
		return true
	}
	if statusCode >= 400 && statusCode < 500 {
		return false
	}
	return true
}

func failedResult(message string) *Result {
	return &Result{
		Success:      false,
		ErrorMessage: &message,
	}
}
