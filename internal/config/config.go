// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers file and environment on top.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath locates the SQLite database file.
	DBPath string `koanf:"db_path"`

	// MaxBoardLimit caps GET /leaderboard?limit.
	MaxBoardLimit int `koanf:"max_board_limit"`

	// RequireFullResults makes grading refuse rounds with unresulted matches.
	RequireFullResults bool `koanf:"require_full_results"`

	// AutogradeEnabled toggles the background grading poller. Off unless
	// opted in; settlement then happens only via the grade endpoint.
	AutogradeEnabled bool `koanf:"autograde_enabled"`

	// AutogradeIntervalMS sets the poll interval in milliseconds.
	AutogradeIntervalMS int `koanf:"autograde_interval_ms"`

	// AutogradeQueueSize bounds the autograde round queue.
	AutogradeQueueSize int `koanf:"autograde_queue_size"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		DBPath:              "fantabet.db",
		MaxBoardLimit:       100,
		RequireFullResults:  false,
		AutogradeEnabled:    false,
		AutogradeIntervalMS: 15_000,
		AutogradeQueueSize:  1024,
	}
}
