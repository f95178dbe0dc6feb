package draft

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/calloway-dev/formflow/internal/domain"
)

// PostgresStore persists drafts in the form_drafts table. One row per key;
// saves upsert.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Store backed by the given database.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Load retrieves the draft stored under key.
func (s *PostgresStore) Load(ctx context.Context, key string) (*domain.Draft, error) {
	var (
		raw     []byte
		savedAt time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT form_data, saved_at FROM form_drafts WHERE key = $1`,
		key,
	).Scan(&raw, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	var formData map[string]any
	if err := json.Unmarshal(raw, &formData); err != nil {
		return nil, ErrCorrupt
	}
	return &domain.Draft{FormData: formData, SavedAt: savedAt}, nil
}

// Save stores the draft under key, overwriting any previous entry.
func (s *PostgresStore) Save(ctx context.Context, key string, d *domain.Draft) error {
	raw, err := json.Marshal(d.FormData)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO form_drafts (key, form_data, saved_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET form_data = $2, saved_at = $3`,
		key, raw, d.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// DeleteExpired removes rows saved before cutoff and reports how many were
// removed. Called by the background sweeper; expiry on the read path still
// applies for rows the sweeper has not reached yet.
func (s *PostgresStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM form_drafts WHERE saved_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired drafts: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired drafts: %w", err)
	}
	return removed, nil
}

// Delete removes the entry under key. Idempotent.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM form_drafts WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
