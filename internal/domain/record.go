// Package domain contains the core business entities and domain logic for the
// Shelfmark library system.
package domain

import "time"

// Record provides common fields for persisted entities.
// Listings default to newest-first by CreatedAt.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// InitTimestamps sets CreatedAt to now if unset.
// Call this when creating a new entity.
func (r *Record) InitTimestamps() {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
}

// DateOnly truncates an instant to its calendar day in UTC.
// Due dates are compared at day granularity; return dates keep the full instant.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two instants fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}
