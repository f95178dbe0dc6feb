// Package ai defines the interface for AI-assisted form prefill.
//
// A provider turns a free-text description ("a bakery crowdfunding
// campaign in Lausanne, goal 20k") into concrete field suggestions with
// per-field confidence scores. Suggestions only prefill the form; they
// never affect validation or submission.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PrefillProvider generates field suggestions for an entity form.
type PrefillProvider interface {
	// PrefillForm suggests values for the given entity type's fields.
	PrefillForm(ctx context.Context, params PrefillParams) (*PrefillResult, error)
}

// PrefillParams contains the inputs for a prefill request.
type PrefillParams struct {
	EntityType string         // e.g. "project"
	Prompt     string         // User's free-text description
	FieldNames []string       // Fields the provider may fill
	Current    map[string]any // Current values, for context
	UserID     uuid.UUID      // For usage tracking
}

// PrefillResult is the provider's suggestion set.
type PrefillResult struct {
	Values     map[string]any     // Suggested value per field name
	Confidence map[string]float64 // 0..1 confidence per suggested field
	Usage      UsageInfo
}

// UsageInfo tracks API usage for monitoring.
type UsageInfo struct {
	Model        string
	InputTokens  int
	OutputTokens int
	Duration     time.Duration
}

// ProviderConfig contains common configuration for AI providers.
type ProviderConfig struct {
	MaxRetries     int           // Maximum retry attempts for transient errors
	RetryBaseDelay time.Duration // Base delay for exponential backoff
	RequestTimeout time.Duration // Timeout for individual requests
}

// Error codes for AI provider operations
var (
	// EAIRateLimit indicates the API rate limit has been exceeded
	EAIRateLimit = errors.New("ai provider rate limit exceeded")

	// EAITimeout indicates the request timed out
	EAITimeout = errors.New("ai request timed out")

	// EAIUnavailable indicates the AI service is temporarily unavailable
	EAIUnavailable = errors.New("ai service temporarily unavailable")

	// EAIUnauthorized indicates invalid API credentials
	EAIUnauthorized = errors.New("ai provider authentication failed")
)

// IsRetryable returns true if the error is transient and worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, EAIRateLimit) ||
		errors.Is(err, EAITimeout) ||
		errors.Is(err, EAIUnavailable)
}

// WrapError adds operation context to a provider error.
func WrapError(op string, err error) error {
	return fmt.Errorf("ai %s: %w", op, err)
}
