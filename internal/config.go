package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// Platform CRUD API that owns the entity records. Formflow forwards
	// the user's session cookie to it on every write.
	PlatformAPIBase string

	// Draft store configuration
	DraftStoreProvider string // "memory" or "postgres"
	DatabaseUrl        string // Required when DraftStoreProvider is "postgres"
	DraftTTL           time.Duration
	AutosaveInterval   time.Duration
	DraftSweepInterval time.Duration

	// AI Provider Configuration
	AIProvider       string // "anthropic" or "mock"
	AnthropicAPIKey  string
	AnthropicModel   string
	AIMaxRetries     int
	AIRetryBaseDelay time.Duration
	AIRequestTimeout time.Duration

	// Prefill rate limiting (each request costs a model call)
	PrefillMaxRequests int
	PrefillWindow      time.Duration

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		PlatformAPIBase: getEnv("PLATFORM_API_BASE", "http://localhost:3000"),

		// Drafts default to the in-process store for development
		DraftStoreProvider: getEnv("DRAFT_STORE_PROVIDER", "memory"),
		DraftTTL:           getEnvDuration("DRAFT_TTL", 7*24*time.Hour),
		AutosaveInterval:   getEnvDuration("DRAFT_AUTOSAVE_INTERVAL", 10*time.Second),
		DraftSweepInterval: getEnvDuration("DRAFT_SWEEP_INTERVAL", time.Hour),

		// AI provider defaults
		AIProvider:       getEnv("AI_PROVIDER", "mock"),
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:   getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
		AIMaxRetries:     getEnvInt("AI_MAX_RETRIES", 3),
		AIRetryBaseDelay: getEnvDuration("AI_RETRY_BASE_DELAY", 1*time.Second),
		AIRequestTimeout: getEnvDuration("AI_REQUEST_TIMEOUT", 60*time.Second),

		// Prefill rate limit defaults
		PrefillMaxRequests: getEnvInt("PREFILL_MAX_REQUESTS", 10),
		PrefillWindow:      getEnvDuration("PREFILL_WINDOW", 10*time.Minute),

		// Metrics authentication
		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	// Validate draft store configuration
	switch cfg.DraftStoreProvider {
	case "postgres":
		cfg.DatabaseUrl = os.Getenv("DATABASE_URL")
		if cfg.DatabaseUrl == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when DRAFT_STORE_PROVIDER is 'postgres'")
		}
	case "memory":
		// Nothing to validate; drafts die with the process
	default:
		return nil, fmt.Errorf("DRAFT_STORE_PROVIDER must be either 'memory' or 'postgres', got: %s", cfg.DraftStoreProvider)
	}

	// Validate AI provider configuration
	if cfg.AIProvider == "anthropic" {
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required when AI_PROVIDER is 'anthropic'")
		}
	} else if cfg.AIProvider != "mock" {
		return nil, fmt.Errorf("AI_PROVIDER must be either 'anthropic' or 'mock', got: %s", cfg.AIProvider)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
