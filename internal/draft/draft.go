// Package draft provides keyed persistence for in-progress form data.
//
// The browser-local draft store of the legacy client becomes an explicit
// keyed external store with a TTL policy here. All key derivation, expiry,
// and corrupt-entry handling lives behind the Drafts facade so the rest of
// the application never touches raw keys or timestamps.
//
// Two Store implementations exist:
// - MemoryStore: process-local, for development and tests
// - PostgresStore: shared table, for production
package draft

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/calloway-dev/formflow/internal/domain"
)

// Store errors
var (
	// ErrNotFound indicates no draft exists under the key.
	ErrNotFound = errors.New("draft not found")

	// ErrCorrupt indicates the stored entry could not be decoded.
	ErrCorrupt = errors.New("draft entry corrupt")
)

// Store is the raw keyed store. Implementations overwrite on save and are
// idempotent on delete.
type Store interface {
	// Load retrieves the draft stored under key.
	// Returns ErrNotFound if the key doesn't exist and ErrCorrupt if the
	// entry cannot be decoded.
	Load(ctx context.Context, key string) (*domain.Draft, error)

	// Save stores the draft under key, overwriting any previous entry.
	Save(ctx context.Context, key string, d *domain.Draft) error

	// Delete removes the entry under key. No error if the key is absent.
	Delete(ctx context.Context, key string) error
}

// =============================================================================
// Drafts Facade
// =============================================================================

// Config holds the tuning knobs for draft retention. The interval and TTL
// are deliberate configuration points, not invariants.
type Config struct {
	TTL              time.Duration // How long a draft stays restorable
	AutosaveInterval time.Duration // How often dirty sessions persist
}

// DefaultConfig mirrors the platform's long-standing behavior.
func DefaultConfig() Config {
	return Config{
		TTL:              7 * 24 * time.Hour,
		AutosaveInterval: 10 * time.Second,
	}
}

// Drafts wraps a Store with key derivation, expiry, and corrupt-entry
// recovery.
type Drafts struct {
	store  Store
	config Config
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Drafts facade. A zero TTL or interval falls back to the
// defaults.
func New(store Store, config Config, logger *slog.Logger) *Drafts {
	def := DefaultConfig()
	if config.TTL <= 0 {
		config.TTL = def.TTL
	}
	if config.AutosaveInterval <= 0 {
		config.AutosaveInterval = def.AutosaveInterval
	}
	return &Drafts{
		store:  store,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// AutosaveInterval returns the configured autosave period.
func (d *Drafts) AutosaveInterval() time.Duration {
	return d.config.AutosaveInterval
}

// Restore loads the draft for a (entity type, user) pair if one exists and
// is still fresh. Expired drafts are deleted silently; corrupt entries are
// logged, deleted, and treated as absent. Returns nil when there is nothing
// to restore.
func (d *Drafts) Restore(ctx context.Context, entityType, userID string) (*domain.Draft, error) {
	key := domain.DraftKey(entityType, userID)

	stored, err := d.store.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if errors.Is(err, ErrCorrupt) {
		d.logger.Warn("discarding corrupt draft", "key", key)
		_ = d.store.Delete(ctx, key)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if stored.Expired(d.now(), d.config.TTL) {
		_ = d.store.Delete(ctx, key)
		return nil, nil
	}
	return stored, nil
}

// Save persists the current form data for a (entity type, user) pair,
// overwriting the previous draft.
func (d *Drafts) Save(ctx context.Context, entityType, userID string, formData map[string]any) error {
	key := domain.DraftKey(entityType, userID)
	return d.store.Save(ctx, key, &domain.Draft{
		FormData: formData,
		SavedAt:  d.now(),
	})
}

// Discard removes the draft for a (entity type, user) pair. Idempotent.
func (d *Drafts) Discard(ctx context.Context, entityType, userID string) error {
	return d.store.Delete(ctx, domain.DraftKey(entityType, userID))
}
