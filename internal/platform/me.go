package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/calloway-dev/formflow/internal/domain"
	"github.com/calloway-dev/formflow/internal/session"
	"github.com/google/uuid"
)

// mePath is the platform's current-user endpoint.
const mePath = "/api/me"

// Me resolves a session token to the signed-in user. A non-2xx response
// comes back as an *APIError, which the auth middleware treats as "not
// signed in".
func (c *Client) Me(ctx context.Context, sessionToken string) (*domain.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+mePath, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sessionToken})

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", mePath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseErrorBody(resp)
	}

	var envelope struct {
		Data struct {
			ID                string `json:"id"`
			Email             string `json:"email"`
			DisplayName       string `json:"displayName"`
			PreferredCurrency string `json:"preferredCurrency"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	id, err := uuid.Parse(envelope.Data.ID)
	if err != nil {
		return nil, fmt.Errorf("malformed user id %q: %w", envelope.Data.ID, err)
	}

	return &domain.User{
		ID:                id,
		Email:             envelope.Data.Email,
		DisplayName:       envelope.Data.DisplayName,
		PreferredCurrency: envelope.Data.PreferredCurrency,
	}, nil
}
