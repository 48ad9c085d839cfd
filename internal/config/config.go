// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file backing the match store.
	DBPath string `koanf:"db_path"`

	// UploadQueueSize bounds the in-memory upload queue.
	UploadQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of extraction workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the upload idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxUploadBytes caps the size of an accepted match payload.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// DefaultTier is assigned to players seen for the first time.
	DefaultTier string `koanf:"default_tier"`

	// BaselineRefreshSeconds sets how often the baseline refresher runs.
	// Zero disables the background refresh.
	BaselineRefreshSeconds int `koanf:"baseline_refresh_seconds"`

	// ScrapeSeed seeds the synthetic baseline source for reproducible runs.
	ScrapeSeed int64 `koanf:"scrape_seed"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		DBPath:                 "rlcoach.db",
		UploadQueueSize:        10_000,
		WorkerCount:            runtime.NumCPU() * 2,
		DedupeSize:             50_000,
		MaxUploadBytes:         4 << 20,
		DefaultTier:            "Gold",
		BaselineRefreshSeconds: 3600,
		ScrapeSeed:             42,
	}
}
