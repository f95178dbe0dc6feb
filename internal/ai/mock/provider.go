// Package mock provides a canned prefill provider for testing and
// development.
package mock

import (
	"context"
	"log/slog"
	"time"

	"github.com/calloway-dev/formflow/internal/ai"
)

// Provider is a mock prefill provider for testing and development.
type Provider struct {
	logger *slog.Logger

	// Configurable responses for testing
	PrefillResponse *ai.PrefillResult
	PrefillError    error

	// Call tracking for testing
	PrefillCalls int
}

// New creates a new mock prefill provider.
func New(logger *slog.Logger) *Provider {
	return &Provider{
		logger: logger,
	}
}

// PrefillForm returns the configured response, or a canned suggestion set.
func (p *Provider) PrefillForm(ctx context.Context, params ai.PrefillParams) (*ai.PrefillResult, error) {
	p.PrefillCalls++

	if p.PrefillError != nil {
		return nil, p.PrefillError
	}
	if p.PrefillResponse != nil {
		return p.PrefillResponse, nil
	}

	p.logger.Debug("mock prefill", "entity_type", params.EntityType, "prompt_len", len(params.Prompt))

	// Default canned response keyed to the commonly configured fields
	values := map[string]any{}
	confidence := map[string]float64{}
	for _, name := range params.FieldNames {
		switch name {
		case "title":
			values[name] = "Neighborhood Solar Co-op"
			confidence[name] = 0.92
		case "description":
			values[name] = "A community-owned solar installation funding panels for the local school roof."
			confidence[name] = 0.81
		case "category":
			values[name] = "environment"
			confidence[name] = 0.64
		case "goal_amount":
			values[name] = 20000
			confidence[name] = 0.55
		}
	}

	return &ai.PrefillResult{
		Values:     values,
		Confidence: confidence,
		Usage: ai.UsageInfo{
			Model:    "mock",
			Duration: time.Millisecond,
		},
	}, nil
}
