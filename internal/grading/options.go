// Package grading implements the round settlement engine.
package grading

import (
	"time"

	"github.com/fantabet/fantabet/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClock overrides the timestamp source used for score and leaderboard
// rows. Used by tests that need deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithRequireFullResults makes the engine reject rounds that still have
// matches without a recorded full-time score, instead of grading them as
// goalless.
func WithRequireFullResults(require bool) Option {
	return func(e *Engine) {
		e.requireFullResults = require
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
