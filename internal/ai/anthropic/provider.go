// Package anthropic implements the prefill provider against the Anthropic
// Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/calloway-dev/formflow/internal/ai"
)

const (
	// APIBaseURL is the base URL for the Anthropic API
	APIBaseURL = "https://api.anthropic.com/v1/messages"

	// APIVersion is the Anthropic API version
	APIVersion = "2023-06-01"

	// DefaultModel is the default Claude model to use
	DefaultModel = "claude-3-5-sonnet-20241022"

	// maxTokens bounds the completion size; a field map is small.
	maxTokens = 1024
)

// Config contains configuration for the Anthropic provider
type Config struct {
	APIKey         string
	Model          string
	BaseURL        string // Overridable for tests
	ProviderConfig ai.ProviderConfig
}

// Provider implements ai.PrefillProvider using Anthropic's Claude API.
type Provider struct {
	config Config
	client *http.Client
	logger *slog.Logger
}

// New creates a new Anthropic prefill provider.
func New(config Config, logger *slog.Logger) (*Provider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	// Set defaults
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.BaseURL == "" {
		config.BaseURL = APIBaseURL
	}
	if config.ProviderConfig.MaxRetries == 0 {
		config.ProviderConfig.MaxRetries = 3
	}
	if config.ProviderConfig.RetryBaseDelay == 0 {
		config.ProviderConfig.RetryBaseDelay = 1 * time.Second
	}
	if config.ProviderConfig.RequestTimeout == 0 {
		config.ProviderConfig.RequestTimeout = 60 * time.Second
	}

	return &Provider{
		config: config,
		client: &http.Client{
			Timeout: config.ProviderConfig.RequestTimeout,
		},
		logger: logger,
	}, nil
}

// PrefillForm asks Claude for field suggestions and parses them into a
// value map with confidence scores.
func (p *Provider) PrefillForm(ctx context.Context, params ai.PrefillParams) (*ai.PrefillResult, error) {
	startTime := time.Now()

	if strings.TrimSpace(params.Prompt) == "" {
		return nil, ai.WrapError("validate params", fmt.Errorf("prompt is empty"))
	}
	if len(params.FieldNames) == 0 {
		return nil, ai.WrapError("validate params", fmt.Errorf("no fields to fill"))
	}

	body, err := p.buildRequestBody(params)
	if err != nil {
		return nil, ai.WrapError("build request", err)
	}

	resp, err := p.executeWithRetry(ctx, body)
	if err != nil {
		return nil, ai.WrapError("execute request", err)
	}

	result, err := parseSuggestions(resp)
	if err != nil {
		return nil, ai.WrapError("parse response", err)
	}

	result.Usage = ai.UsageInfo{
		Model:        p.config.Model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		Duration:     time.Since(startTime),
	}

	p.logger.Info("prefill generated",
		"entity_type", params.EntityType,
		"fields", len(result.Values),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	return result, nil
}

// =============================================================================
// Request Construction
// =============================================================================

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (p *Provider) buildRequestBody(params ai.PrefillParams) ([]byte, error) {
	current, err := json.Marshal(params.Current)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"Entity type: %s\nFillable fields: %s\nCurrent values: %s\nUser description: %s",
		params.EntityType,
		strings.Join(params.FieldNames, ", "),
		current,
		params.Prompt,
	)

	return json.Marshal(apiRequest{
		Model:     p.config.Model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages: []apiMessage{
			{Role: "user", Content: prompt},
		},
	})
}

// =============================================================================
// Execution with Retry
// =============================================================================

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// executeWithRetry executes the request with exponential backoff on
// transient failures.
func (p *Provider) executeWithRetry(ctx context.Context, body []byte) (*apiResponse, error) {
	var lastErr error

	for attempt := 1; attempt <= p.config.ProviderConfig.MaxRetries; attempt++ {
		resp, err := p.executeRequest(ctx, body)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !ai.IsRetryable(err) {
			return nil, err
		}
		if attempt == p.config.ProviderConfig.MaxRetries {
			break
		}

		delay := p.config.ProviderConfig.RetryBaseDelay * time.Duration(1<<(attempt-1))
		p.logger.Debug("retrying prefill request", "attempt", attempt, "delay", delay)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, lastErr
}

func (p *Provider) executeRequest(ctx context.Context, body []byte) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.config.APIKey)
	req.Header.Set("anthropic-version", APIVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ai.EAITimeout
		}
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var parsed apiResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return &parsed, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ai.EAIUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ai.EAIRateLimit
	case resp.StatusCode >= 500:
		return nil, ai.EAIUnavailable
	default:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("anthropic API %d: %s", resp.StatusCode, raw)
	}
}

// =============================================================================
// Response Parsing
// =============================================================================

// suggestionPayload is the JSON shape the system prompt asks Claude for.
type suggestionPayload struct {
	Fields []struct {
		Name       string  `json:"name"`
		Value      any     `json:"value"`
		Confidence float64 `json:"confidence"`
	} `json:"fields"`
}

func parseSuggestions(resp *apiResponse) (*ai.PrefillResult, error) {
	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, fmt.Errorf("response contains no text block")
	}

	// Models occasionally wrap JSON in a code fence despite instructions.
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var payload suggestionPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &payload); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}

	result := &ai.PrefillResult{
		Values:     make(map[string]any, len(payload.Fields)),
		Confidence: make(map[string]float64, len(payload.Fields)),
	}
	for _, f := range payload.Fields {
		if f.Name == "" || f.Value == nil {
			continue
		}
		result.Values[f.Name] = f.Value
		result.Confidence[f.Name] = clamp01(f.Confidence)
	}
	return result, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
