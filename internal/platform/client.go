// Package platform is the HTTP client for the crowdfunding platform's CRUD
// API, which owns the actual entity records. Formflow validates and shapes
// payloads; this client moves them.
package platform

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

	"github.com/calloway-dev/formflow/internal/session"
)

// DefaultTimeout bounds a single create/update call.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response we read.
const maxErrorBody = 64 * 1024

// Client talks to the platform CRUD API. Requests carry the user's session
// cookie so the API applies the caller's own permissions.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// New creates a Client for the given API base URL, e.g.
// "https://api.example.org".
func New(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
		logger:  logger,
	}
}

// APIError is a non-2xx response from the platform, with the most useful
// message the body offered.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("platform API %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("platform API %d: %s", e.StatusCode, e.Message)
}

// Create POSTs a new entity record to the given endpoint path and returns
// the created record.
func (c *Client) Create(ctx context.Context, endpoint, sessionToken string, body map[string]any) (map[string]any, error) {
	return c.do(ctx, http.MethodPost, endpoint, sessionToken, body)
}

// Update PUTs changed fields to {endpoint}/{entityID} and returns the
// updated record.
func (c *Client) Update(ctx context.Context, endpoint, entityID, sessionToken string, body map[string]any) (map[string]any, error) {
	return c.do(ctx, http.MethodPut, endpoint+"/"+entityID, sessionToken, body)
}

func (c *Client) do(ctx context.Context, method, path, sessionToken string, body map[string]any) (map[string]any, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sessionToken})

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseErrorBody(resp)
		c.logger.Warn("platform API call failed",
			"method", method,
			"path", path,
			"status", apiErr.StatusCode,
			"code", apiErr.Code,
		)
		return nil, apiErr
	}

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return envelope.Data, nil
}

// parseErrorBody extracts the most specific message a failure body offers,
// checking in order: a nested error-message field, a nested error
// code-plus-message, a top-level message, and finally the raw text.
func parseErrorBody(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		apiErr.Message = resp.Status
		return apiErr
	}

	var body struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != nil && body.Error.Message != "" {
			apiErr.Code = body.Error.Code
			apiErr.Message = body.Error.Message
			return apiErr
		}
		if body.Message != "" {
			apiErr.Message = body.Message
			return apiErr
		}
	}

	apiErr.Message = strings.TrimSpace(string(raw))
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}
	return apiErr
}
