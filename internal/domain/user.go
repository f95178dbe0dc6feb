// Package domain contains core business types and interfaces.
//
// This file defines the User domain type. Authentication itself happens
// upstream of this service; the auth middleware resolves the platform
// session cookie into one of these.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents the authenticated platform user a form session belongs to.
type User struct {
	ID          uuid.UUID
	Email       string
	DisplayName string

	// PreferredCurrency is the user's display currency (ISO 4217 code).
	// Seeds currency fields that have no explicit default in create mode.
	PreferredCurrency string

	CreatedAt time.Time
}
