package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calloway-dev/formflow/internal"
	"github.com/calloway-dev/formflow/internal/ai"
	"github.com/calloway-dev/formflow/internal/ai/anthropic"
	"github.com/calloway-dev/formflow/internal/ai/mock"
	"github.com/calloway-dev/formflow/internal/catalog"
	"github.com/calloway-dev/formflow/internal/draft"
	"github.com/calloway-dev/formflow/internal/handler"
	"github.com/calloway-dev/formflow/internal/metrics"
	"github.com/calloway-dev/formflow/internal/middleware"
	"github.com/calloway-dev/formflow/internal/platform"
	"github.com/calloway-dev/formflow/internal/service"
	"github.com/calloway-dev/formflow/internal/worker"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// version is set at build time via -ldflags.
var version = "dev"

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize the draft store. Postgres persists drafts across restarts;
	// memory is fine for development.
	var (
		store   draft.Store
		sweeper *worker.Sweeper
	)
	switch cfg.DraftStoreProvider {
	case "postgres":
		db, err := sql.Open("pgx", cfg.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		if err := internal.RunMigrations(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Database ready")

		pgStore := draft.NewPostgresStore(db)
		store = pgStore

		sweepCfg := worker.DefaultConfig(cfg.DraftTTL)
		sweepCfg.SweepInterval = cfg.DraftSweepInterval
		sweeper, err = worker.New(pgStore, sweepCfg, logger)
		if err != nil {
			return fmt.Errorf("sweeper initialization failed: %w", err)
		}
	default:
		store = draft.NewMemoryStore()
		logger.Warn("Using in-memory draft store; drafts will not survive restarts")
	}

	drafts := draft.New(store, draft.Config{
		TTL:              cfg.DraftTTL,
		AutosaveInterval: cfg.AutosaveInterval,
	}, logger)

	// Platform API client (entity CRUD and session resolution)
	api := platform.New(cfg.PlatformAPIBase, logger)

	// AI prefill provider
	var prefill ai.PrefillProvider
	switch cfg.AIProvider {
	case "anthropic":
		prefill, err = anthropic.New(anthropic.Config{
			APIKey: cfg.AnthropicAPIKey,
			Model:  cfg.AnthropicModel,
			ProviderConfig: ai.ProviderConfig{
				MaxRetries:     cfg.AIMaxRetries,
				RetryBaseDelay: cfg.AIRetryBaseDelay,
				RequestTimeout: cfg.AIRequestTimeout,
			},
		}, logger)
		if err != nil {
			return fmt.Errorf("anthropic provider initialization failed: %w", err)
		}
		logger.Info("AI prefill enabled", "provider", "anthropic", "model", cfg.AnthropicModel)
	default:
		prefill = mock.New(logger)
		logger.Info("AI prefill using mock provider")
	}

	// Initialize services
	sessions := service.NewFormSessionService(
		catalog.New(), drafts, api, prefill, service.Hooks{}, logger,
	)

	// Initialize middleware
	isSecure := cfg.Env != "development"
	authMw := middleware.NewAuthMiddleware(api, logger, isSecure)
	csrfMw := middleware.NewCSRFMiddleware(logger, isSecure)
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	prefillLimiter := middleware.NewRateLimitMiddleware(
		middleware.NewRateLimiter(cfg.PrefillMaxRequests, cfg.PrefillWindow, logger),
		logger,
	)
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(version, logger)
	entityHandler := handler.NewEntityHandler(catalog.New(), logger)
	formHandler := handler.NewFormSessionHandler(sessions, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Check)
	mux.Handle("GET /metrics", metricsAuthMw.Handler(promhttp.Handler()))

	public := middleware.Stack(authMw.WithUser, csrfMw.Protect)
	requireUser := middleware.Stack(authMw.WithUser, csrfMw.Protect, authMw.RequireUser)
	requireUserLimited := middleware.Stack(
		authMw.WithUser, csrfMw.Protect, authMw.RequireUser, prefillLimiter.Limit,
	)

	// Entity catalog (readable without an account)
	mux.Handle("GET /api/entity-types", public(http.HandlerFunc(entityHandler.List)))
	mux.Handle("GET /api/entity-types/{type}", public(http.HandlerFunc(entityHandler.Get)))

	// Form sessions
	mux.Handle("POST /api/forms", requireUser(http.HandlerFunc(formHandler.Open)))
	mux.Handle("GET /api/forms/{id}", requireUser(http.HandlerFunc(formHandler.Get)))
	mux.Handle("DELETE /api/forms/{id}", requireUser(http.HandlerFunc(formHandler.Close)))
	mux.Handle("PATCH /api/forms/{id}/fields", requireUser(http.HandlerFunc(formHandler.SetField)))
	mux.Handle("POST /api/forms/{id}/active-field", requireUser(http.HandlerFunc(formHandler.ActiveField)))
	mux.Handle("POST /api/forms/{id}/template", requireUser(http.HandlerFunc(formHandler.Template)))
	mux.Handle("POST /api/forms/{id}/wizard/{action}", requireUser(http.HandlerFunc(formHandler.Wizard)))
	mux.Handle("POST /api/forms/{id}/prefill", requireUserLimited(http.HandlerFunc(formHandler.Prefill)))
	mux.Handle("POST /api/forms/{id}/submit", requireUser(http.HandlerFunc(formHandler.Submit)))

	// Outermost: security headers, request logging, request metrics
	root := middleware.Stack(securityMw.Handler, loggingMw.Handler, metrics.Middleware)(mux)

	// ==========================================================================
	// Start server and background loops
	// ==========================================================================

	if sweeper != nil {
		sweeper.Start(ctx)
		defer sweeper.Stop()
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: root,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env, "version", version)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
