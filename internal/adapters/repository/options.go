// Package repository defines the persistence contract consumed by the
// grading engine and the HTTP layer, plus its SQLite implementation.
package repository

import "time"

// Option applies a configuration option to the SQLiteStore.
type Option func(*SQLiteStore)

// WithNow overrides the timestamp source. Used by tests that need
// deterministic updated-at values.
func WithNow(now func() time.Time) Option {
	return func(s *SQLiteStore) {
		if now != nil {
			s.now = now
		}
	}
}
