// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"time"

	"github.com/okian/okrscore/internal/domain/levels"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// SnapshotPath points at the YAML organization snapshot loaded at startup.
	// Empty starts the service with no divisions.
	SnapshotPath string `koanf:"snapshot_path"`

	// MaxBodyBytes bounds request bodies accepted by the API.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// MetricsRefresh sets how often runtime gauges are sampled.
	MetricsRefresh time.Duration `koanf:"metrics_refresh"`

	// MetricsEnabled turns Prometheus recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace and MetricsSubsystem lead every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsPrefix is prepended to each metric's own name.
	MetricsPrefix string `koanf:"metrics_prefix"`

	// MetricsBuckets overrides the latency histogram buckets, in milliseconds.
	MetricsBuckets []float64 `koanf:"metrics_buckets"`

	// MetricsLabels are constant labels attached to every metric.
	MetricsLabels map[string]string `koanf:"metrics_labels"`

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Levels seeds the level configuration when the snapshot carries none.
	Levels []levels.ScoreLevel `koanf:"levels"`
}

// New creates a Config with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		MaxBodyBytes:     1 << 20,
		MetricsRefresh:   15 * time.Second,
		MetricsEnabled:   true,
		MetricsNamespace: "okrscore",
		MetricsSubsystem: "engine",
		ShutdownTimeout:  10 * time.Second,
	}
}
