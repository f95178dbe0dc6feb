package draft

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/calloway-dev/formflow/internal/domain"
)

// MemoryStore is an in-process Store for development and tests. Entries are
// kept as encoded JSON so the decode path (and its failure mode) matches
// the production store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]byte),
	}
}

// Load retrieves the draft stored under key.
func (s *MemoryStore) Load(_ context.Context, key string) (*domain.Draft, error) {
	s.mu.RLock()
	raw, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	var d domain.Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, ErrCorrupt
	}
	return &d, nil
}

// Save stores the draft under key, overwriting any previous entry.
func (s *MemoryStore) Save(_ context.Context, key string, d *domain.Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.entries[key] = raw
	s.mu.Unlock()
	return nil
}

// Delete removes the entry under key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// DeleteExpired removes entries saved before cutoff and reports how many
// were removed. Undecodable entries count as expired.
func (s *MemoryStore) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for key, raw := range s.entries {
		var d domain.Draft
		if err := json.Unmarshal(raw, &d); err != nil || d.SavedAt.Before(cutoff) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Corrupt overwrites an entry with undecodable bytes. Test helper.
func (s *MemoryStore) Corrupt(key string) {
	s.mu.Lock()
	s.entries[key] = []byte("{not json")
	s.mu.Unlock()
}
