// Package worker runs Formflow's background maintenance loops.
//
// The only loop today is the draft sweeper: expired drafts are already
// invisible on the read path, but without a sweeper abandoned rows would
// accumulate forever.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ExpiredDeleter is the store surface the sweeper needs.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// Config holds the sweeper's tuning knobs.
type Config struct {
	// TTL matches the draft store's retention policy; rows older than
	// this are removed.
	TTL time.Duration

	// SweepInterval is how often the loop runs.
	SweepInterval time.Duration

	// SweepTimeout bounds a single delete pass.
	SweepTimeout time.Duration

	// ShutdownTimeout bounds how long Stop waits for an in-flight pass.
	ShutdownTimeout time.Duration
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("TTL must be positive, got %v", c.TTL)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SweepInterval must be positive, got %v", c.SweepInterval)
	}
	return nil
}

// DefaultConfig returns production defaults for the given TTL.
func DefaultConfig(ttl time.Duration) Config {
	return Config{
		TTL:             ttl,
		SweepInterval:   time.Hour,
		SweepTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Sweeper periodically deletes expired drafts from the store.
// It must be started with Start() and stopped with Stop().
type Sweeper struct {
	store  ExpiredDeleter
	config Config
	logger *slog.Logger

	wg     sync.WaitGroup
	stopCh chan struct{}
}

// New creates a new Sweeper with the given configuration.
func New(store ExpiredDeleter, config Config, logger *slog.Logger) (*Sweeper, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Sweeper{
		store:  store,
		config: config,
		logger: logger,
		stopCh: make(chan struct{}),
	}, nil
}

// Start begins the sweep loop. One pass runs immediately so a restart
// doesn't postpone cleanup by a full interval.
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
	s.logger.Info("draft sweeper started", "interval", s.config.SweepInterval, "ttl", s.config.TTL)
}

// Stop signals the loop to stop and waits for it to finish, respecting the
// configured ShutdownTimeout.
func (s *Sweeper) Stop() {
	close(s.stopCh)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("draft sweeper stopped")
	case <-time.After(s.config.ShutdownTimeout):
		s.logger.Warn("draft sweeper shutdown timeout exceeded")
	}
}

func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()

	s.sweep(ctx)

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep runs a single delete pass.
func (s *Sweeper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.SweepTimeout)
	defer cancel()

	cutoff := time.Now().Add(-s.config.TTL)
	removed, err := s.store.DeleteExpired(sweepCtx, cutoff)
	if err != nil {
		s.logger.Error("draft sweep failed", "error", err)
		return
	}
	if removed > 0 {
		s.logger.Info("swept expired drafts", "removed", removed, "cutoff", cutoff)
	}
}
