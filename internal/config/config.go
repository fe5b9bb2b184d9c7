// Package config defines service configuration structures and loading.
//
// Conventions:
// - Defaults come from New; file and environment layers override them.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory observation queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of observation workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the observation dedupe window.
	DedupeSize int `koanf:"dedupe_size"`

	// MinGroupSize is the smallest cohort aggregate reads will expose.
	MinGroupSize int `koanf:"min_group_size"`

	// NoiseAmplitude bounds the uniform noise added to cohort scores.
	NoiseAmplitude float64 `koanf:"noise_amplitude"`

	// BenchmarksPath points at a YAML benchmark dataset. Empty means the
	// embedded defaults.
	BenchmarksPath string `koanf:"benchmarks_path"`

	// JobsPath points at a YAML job catalog. Empty means the embedded
	// defaults.
	JobsPath string `koanf:"jobs_path"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9090",
		QueueSize:      50_000,
		WorkerCount:    runtime.NumCPU() * 4,
		DedupeSize:     50_000,
		MinGroupSize:   10,
		NoiseAmplitude: 5,
	}
}
