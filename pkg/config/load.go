package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention GAIAN_SECTION_FIELD (e.g. GAIAN_SERVER_LISTEN_ADDRESS) and
// always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Variables use the format GAIAN_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("GAIAN_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("GAIAN_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("GAIAN_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("GAIAN_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}

	// Rules overrides
	if val := os.Getenv("GAIAN_RULES_PATH"); val != "" {
		cfg.Rules.Path = val
	}
	if val := os.Getenv("GAIAN_RULES_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Rules.Watch = b
		}
	}

	// Governance overrides
	if val := os.Getenv("GAIAN_GOVERNANCE_NOVELTY_BASELINE_TOKENS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Governance.Novelty.BaselineTokens = i
		}
	}
	if val := os.Getenv("GAIAN_GOVERNANCE_NOVELTY_DECAY_RATE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Governance.Novelty.Diminishing.DecayRate = f
		}
	}

	// Exports overrides
	if val := os.Getenv("GAIAN_EXPORTS_MAX_BATCH_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Exports.MaxBatchSize = i
		}
	}
	if val := os.Getenv("GAIAN_EXPORTS_REQUIRE_HUMAN_REVIEW_ABOVE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Exports.RequireHumanReviewAbove = i
		}
	}
	if val := os.Getenv("GAIAN_EXPORTS_BUYERS_PATH"); val != "" {
		cfg.Exports.BuyersPath = val
	}
	if val := os.Getenv("GAIAN_EXPORTS_AUDIT_BACKEND"); val != "" {
		cfg.Exports.Audit.Backend = val
	}
	if val := os.Getenv("GAIAN_EXPORTS_AUDIT_SQLITE_PATH"); val != "" {
		cfg.Exports.Audit.SQLitePath = val
	}
	if val := os.Getenv("GAIAN_EXPORTS_AUDIT_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Exports.Audit.RetentionDays = i
		}
	}
	if val := os.Getenv("GAIAN_EXPORTS_AUDIT_PRUNE_SCHEDULE"); val != "" {
		cfg.Exports.Audit.PruneSchedule = val
	}

	// Sink overrides
	if val := os.Getenv("GAIAN_SINK_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Sink.Enabled = b
		}
	}
	if val := os.Getenv("GAIAN_SINK_BACKEND"); val != "" {
		cfg.Sink.Backend = val
	}
	if val := os.Getenv("GAIAN_SINK_SQLITE_PATH"); val != "" {
		cfg.Sink.SQLitePath = val
	}

	// Telemetry overrides
	if val := os.Getenv("GAIAN_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("GAIAN_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("GAIAN_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("GAIAN_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
}
