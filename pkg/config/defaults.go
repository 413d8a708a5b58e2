package config

import (
	"time"

	"gaian-hq/gaian/pkg/governance/anticheat"
	"gaian-hq/gaian/pkg/governance/novelty"
)

var (
	defaultAntiCheat = anticheat.DefaultConfig()
	defaultNovelty   = novelty.DefaultConfig()
)

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// Rules defaults
	DefaultRulesPath  = "config/biomes.yaml"
	DefaultRulesWatch = false

	// Exports defaults
	DefaultMaxBatchSize            = 10000
	DefaultRequireHumanReviewAbove = 1000

	// Audit defaults
	DefaultAuditBackend       = "sqlite"
	DefaultAuditSQLitePath    = "data/audit.db"
	DefaultAuditAsyncBuffer   = 1000
	DefaultAuditWriteTimeout  = 5 * time.Second
	DefaultAuditRetentionDays = 365

	// Sink defaults
	DefaultSinkEnabled      = true
	DefaultSinkBackend      = "sqlite"
	DefaultSinkSQLitePath   = "data/training.db"
	DefaultSinkAsyncBuffer  = 1000
	DefaultSinkWriteTimeout = 5 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "gaian"
)

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	// Rules defaults
	if cfg.Rules.Path == "" {
		cfg.Rules.Path = DefaultRulesPath
	}

	// Governance defaults come from the component packages so one source
	// of truth holds the threshold values.
	applyAntiCheatDefaults(cfg)
	applyNoveltyDefaults(cfg)

	// Exports defaults
	if cfg.Exports.MaxBatchSize == 0 {
		cfg.Exports.MaxBatchSize = DefaultMaxBatchSize
	}
	if cfg.Exports.RequireHumanReviewAbove == 0 {
		cfg.Exports.RequireHumanReviewAbove = DefaultRequireHumanReviewAbove
	}
	if cfg.Exports.Audit.Backend == "" {
		cfg.Exports.Audit.Backend = DefaultAuditBackend
	}
	if cfg.Exports.Audit.SQLitePath == "" {
		cfg.Exports.Audit.SQLitePath = DefaultAuditSQLitePath
	}
	if cfg.Exports.Audit.AsyncBuffer == 0 {
		cfg.Exports.Audit.AsyncBuffer = DefaultAuditAsyncBuffer
	}
	if cfg.Exports.Audit.WriteTimeout == 0 {
		cfg.Exports.Audit.WriteTimeout = DefaultAuditWriteTimeout
	}
	if cfg.Exports.Audit.RetentionDays == 0 {
		cfg.Exports.Audit.RetentionDays = DefaultAuditRetentionDays
	}

	// Sink defaults
	applySinkDefaults(cfg)

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	applyMetricsDefaults(cfg)
}

// applyAntiCheatDefaults fills zero-valued anti-cheat thresholds from the
// package defaults.
func applyAntiCheatDefaults(cfg *Config) {
	ac := &cfg.Governance.AntiCheat
	defaults := *defaultAntiCheat

	if ac.MaxVelocityDeviation == 0 {
		ac.MaxVelocityDeviation = defaults.MaxVelocityDeviation
	}
	if ac.MaxAccelerationSpike == 0 {
		ac.MaxAccelerationSpike = defaults.MaxAccelerationSpike
	}
	if ac.TeleportThresholdMeters == 0 {
		ac.TeleportThresholdMeters = defaults.TeleportThresholdMeters
	}
	if ac.TeleportWindow == 0 {
		ac.TeleportWindow = defaults.TeleportWindow
	}
	if ac.RequiredInputEntropy == 0 {
		ac.RequiredInputEntropy = defaults.RequiredInputEntropy
	}
	if ac.MinReactionTimeMillis == 0 {
		ac.MinReactionTimeMillis = defaults.MinReactionTimeMillis
	}
	if ac.MaxActionsPerMinute == 0 {
		ac.MaxActionsPerMinute = defaults.MaxActionsPerMinute
	}
	if ac.MaxSequenceRepetition == 0 {
		ac.MaxSequenceRepetition = defaults.MaxSequenceRepetition
	}
	if ac.MinSessionDuration == 0 {
		ac.MinSessionDuration = defaults.MinSessionDuration
	}
	if ac.MaxSessionDuration == 0 {
		ac.MaxSessionDuration = defaults.MaxSessionDuration
	}
}

// applyNoveltyDefaults fills zero-valued novelty scoring fields from the
// package defaults.
func applyNoveltyDefaults(cfg *Config) {
	nv := &cfg.Governance.Novelty
	defaults := defaultNovelty

	if nv.BaselineTokens == 0 {
		nv.BaselineTokens = defaults.BaselineTokens
	}

	dim := &nv.Diminishing
	if !dim.Enabled && dim.Threshold == 0 && dim.DecayRate == 0 && dim.Floor == 0 {
		// Section untouched, take it whole.
		*dim = defaults.Diminishing
		return
	}
	if dim.Threshold == 0 {
		dim.Threshold = defaults.Diminishing.Threshold
	}
	if dim.DecayRate == 0 {
		dim.DecayRate = defaults.Diminishing.DecayRate
	}
	if dim.Floor == 0 {
		dim.Floor = defaults.Diminishing.Floor
	}
}

// applySinkDefaults applies defaults to the sink section. Enabled defaults
// to true only when the whole section is untouched, so an explicit
// "enabled: false" survives.
func applySinkDefaults(cfg *Config) {
	sink := &cfg.Sink

	if !sink.Enabled {
		hasAnyConfig := sink.Backend != "" ||
			sink.SQLitePath != "" ||
			sink.AsyncBuffer > 0 ||
			sink.WriteTimeout > 0

		if !hasAnyConfig {
			sink.Enabled = DefaultSinkEnabled
		}
	}

	if sink.Backend == "" {
		sink.Backend = DefaultSinkBackend
	}
	if sink.SQLitePath == "" {
		sink.SQLitePath = DefaultSinkSQLitePath
	}
	if sink.AsyncBuffer == 0 {
		sink.AsyncBuffer = DefaultSinkAsyncBuffer
	}
	if sink.WriteTimeout == 0 {
		sink.WriteTimeout = DefaultSinkWriteTimeout
	}
}

// applyMetricsDefaults applies defaults to the metrics section with the
// same enabled-unless-disabled treatment as the sink.
func applyMetricsDefaults(cfg *Config) {
	metrics := &cfg.Telemetry.Metrics

	if !metrics.Enabled {
		hasAnyConfig := metrics.Path != "" || metrics.Namespace != ""
		if !hasAnyConfig {
			metrics.Enabled = DefaultMetricsEnabled
		}
	}

	if metrics.Path == "" {
		metrics.Path = DefaultMetricsPath
	}
	if metrics.Namespace == "" {
		metrics.Namespace = DefaultMetricsNamespace
	}
}
