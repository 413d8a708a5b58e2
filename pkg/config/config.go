package config

import (
	"time"

	"gaian-hq/gaian/pkg/export"
	"gaian-hq/gaian/pkg/governance/anticheat"
	"gaian-hq/gaian/pkg/governance/novelty"
)

// Config is the root configuration structure for the Gaian governance
// service. It contains all configuration sections for the HTTP server,
// biome rules, the governance pipeline, exports, the training sink, and
// telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen address
	// and timeouts.
	Server ServerConfig `yaml:"server"`

	// Rules contains the biome rule registry configuration: where the
	// rules file lives and whether to watch it for changes.
	Rules RulesConfig `yaml:"rules"`

	// Governance contains configuration for the action evaluation
	// pipeline: anti-cheat thresholds and novelty scoring.
	Governance GovernanceConfig `yaml:"governance"`

	// Exports contains the data gate configuration: batch limits, the
	// human review threshold, authorized buyers, and the audit trail.
	Exports ExportsConfig `yaml:"exports"`

	// Sink contains configuration for capturing accepted actions as
	// training records.
	Sink SinkConfig `yaml:"sink"`

	// Telemetry contains observability configuration: logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response
	// writes.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request when
	// keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown before forcing it.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits how much of the request header the server
	// reads.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// RulesConfig contains configuration for the biome rule registry.
type RulesConfig struct {
	// Path is the YAML file holding the global rules and per-biome rule
	// sets.
	// Default: "config/biomes.yaml"
	Path string `yaml:"path"`

	// Watch enables hot reloading when the rules file changes. A reload
	// that fails validation keeps the previous registry.
	// Default: false
	Watch bool `yaml:"watch"`
}

// GovernanceConfig contains configuration for the action evaluation
// pipeline.
type GovernanceConfig struct {
	// AntiCheat contains the anti-cheat check thresholds.
	AntiCheat anticheat.Config `yaml:"anti_cheat"`

	// Novelty contains novelty scoring configuration.
	Novelty novelty.Config `yaml:"novelty"`
}

// ExportsConfig contains configuration for the export data gate.
type ExportsConfig struct {
	// MaxBatchSize is the largest batch any buyer may export.
	// Default: 10000
	MaxBatchSize int `yaml:"max_batch_size"`

	// RequireHumanReviewAbove is the record count above which an export
	// holds for human review. Biome rules may tighten it per biome.
	// Default: 1000
	RequireHumanReviewAbove int `yaml:"require_human_review_above"`

	// AllowedBuyers lists the authorized buyers inline.
	AllowedBuyers []export.BuyerConfig `yaml:"allowed_buyers"`

	// BuyersPath optionally loads buyers from a separate YAML file
	// instead of the inline list. The two are mutually exclusive.
	BuyersPath string `yaml:"buyers_path"`

	// Audit contains audit trail configuration.
	Audit AuditConfig `yaml:"audit"`
}

// AuditConfig contains configuration for the export audit trail.
type AuditConfig struct {
	// Backend selects the archive backend: "memory" or "sqlite".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLitePath is the archive database path for the sqlite backend.
	// Default: "data/audit.db"
	SQLitePath string `yaml:"sqlite_path"`

	// AsyncBuffer is the archive write channel buffer size.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout is the timeout for one archive write.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// RetentionDays is how long archived entries are kept. Zero disables
	// pruning. The in-process log is append-only regardless.
	// Default: 365
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a cron expression for scheduled archive pruning.
	// Empty disables the scheduler.
	// Default: "" (disabled)
	PruneSchedule string `yaml:"prune_schedule"`
}

// SinkConfig contains configuration for the training record sink.
type SinkConfig struct {
	// Enabled enables capture of accepted actions.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Backend selects the sink backend: "memory" or "sqlite".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLitePath is the training database path for the sqlite backend.
	// Default: "data/training.db"
	SQLitePath string `yaml:"sqlite_path"`

	// AsyncBuffer is the write channel buffer size.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout is the timeout for one backend write.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the metrics endpoint path.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name namespace.
	// Default: "gaian"
	Namespace string `yaml:"namespace"`
}
