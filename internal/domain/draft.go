// Package domain contains core business types and interfaces.
//
// This file defines the Draft type: an auto-saved, not-yet-submitted copy
// of in-progress form data.
package domain

import (
	"fmt"
	"time"
)

// Draft is one persisted snapshot of in-progress form data. Exactly one
// draft exists per (entity type, user) pair; writers overwrite.
type Draft struct {
	FormData map[string]any `json:"formData"`
	SavedAt  time.Time      `json:"savedAt"`
}

// Age returns how long ago the draft was saved.
func (d *Draft) Age(now time.Time) time.Duration {
	return now.Sub(d.SavedAt)
}

// Expired reports whether the draft is older than the retention window.
func (d *Draft) Expired(now time.Time, ttl time.Duration) bool {
	return d.Age(now) > ttl
}

// DraftKey derives the storage key for a (entity type, user) pair.
func DraftKey(entityType, userID string) string {
	return fmt.Sprintf("%s-draft-%s", entityType, userID)
}
