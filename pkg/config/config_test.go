package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// TestApplyDefaults tests that an empty configuration is filled with the
// documented defaults.
func TestApplyDefaults(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("ListenAddress = %q, want %q", cfg.Server.ListenAddress, DefaultListenAddress)
	}
	if cfg.Server.ReadTimeout != DefaultReadTimeout {
		t.Errorf("ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, DefaultReadTimeout)
	}
	if cfg.Rules.Path != DefaultRulesPath {
		t.Errorf("Rules.Path = %q, want %q", cfg.Rules.Path, DefaultRulesPath)
	}
	if cfg.Exports.MaxBatchSize != DefaultMaxBatchSize {
		t.Errorf("MaxBatchSize = %d, want %d", cfg.Exports.MaxBatchSize, DefaultMaxBatchSize)
	}
	if cfg.Exports.RequireHumanReviewAbove != DefaultRequireHumanReviewAbove {
		t.Errorf("RequireHumanReviewAbove = %d, want %d",
			cfg.Exports.RequireHumanReviewAbove, DefaultRequireHumanReviewAbove)
	}
	if cfg.Governance.Novelty.BaselineTokens != 10 {
		t.Errorf("BaselineTokens = %d, want 10", cfg.Governance.Novelty.BaselineTokens)
	}
	if !cfg.Governance.Novelty.Diminishing.Enabled {
		t.Errorf("diminishing returns not enabled by default")
	}
	if cfg.Governance.AntiCheat.TeleportThresholdMeters != 10.0 {
		t.Errorf("TeleportThresholdMeters = %v, want 10.0",
			cfg.Governance.AntiCheat.TeleportThresholdMeters)
	}
	if !cfg.Sink.Enabled {
		t.Errorf("sink not enabled by default")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Errorf("metrics not enabled by default")
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("logging defaults = %q/%q", cfg.Telemetry.Logging.Level, cfg.Telemetry.Logging.Format)
	}
}

// TestApplyDefaults_Idempotent tests that applying defaults twice changes
// nothing.
func TestApplyDefaults_Idempotent(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)
	first := cfg
	ApplyDefaults(&cfg)
	if !reflect.DeepEqual(cfg, first) {
		t.Errorf("ApplyDefaults is not idempotent")
	}
}

// TestApplyDefaults_ExplicitDisableSurvives tests that a sink section with
// explicit configuration keeps enabled=false.
func TestApplyDefaults_ExplicitDisableSurvives(t *testing.T) {
	cfg := Config{Sink: SinkConfig{Backend: "memory"}}
	ApplyDefaults(&cfg)
	if cfg.Sink.Enabled {
		t.Errorf("configured-but-disabled sink was force-enabled")
	}
}

// TestValidate_Defaults tests that the default configuration is valid.
func TestValidate_Defaults(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		t.Fatalf("Validate() on defaults failed: %v", err)
	}
}

// TestValidate_Rejections tests a selection of invalid configurations.
func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing listen address", func(c *Config) { c.Server.ListenAddress = "" }, "server.listen_address"},
		{"zero batch size", func(c *Config) { c.Exports.MaxBatchSize = 0 }, "exports.max_batch_size"},
		{"review above batch size", func(c *Config) {
			c.Exports.RequireHumanReviewAbove = c.Exports.MaxBatchSize + 1
		}, "exports.require_human_review_above"},
		{"bad audit backend", func(c *Config) { c.Exports.Audit.Backend = "postgres" }, "exports.audit.backend"},
		{"bad cron schedule", func(c *Config) { c.Exports.Audit.PruneSchedule = "not cron" }, "exports.audit.prune_schedule"},
		{"decay rate above one", func(c *Config) { c.Governance.Novelty.Diminishing.DecayRate = 1.5 },
			"governance.novelty.diminishing_returns.decay_rate"},
		{"zero baseline tokens", func(c *Config) { c.Governance.Novelty.BaselineTokens = 0 },
			"governance.novelty.baseline_tokens"},
		{"bad log level", func(c *Config) { c.Telemetry.Logging.Level = "verbose" }, "telemetry.logging.level"},
		{"bad sink backend", func(c *Config) { c.Sink.Backend = "redis" }, "sink.backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			ApplyDefaults(&cfg)
			tt.mutate(&cfg)

			err := Validate(&cfg)
			if err == nil {
				t.Fatalf("Validate() accepted invalid config")
			}
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error type = %T", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("no error for field %q in %v", tt.field, verr.Errors)
			}
		})
	}
}

// TestLoadConfig tests loading from YAML with partial content.
func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gaian.yaml")
	content := `
server:
  listen_address: "0.0.0.0:9090"
exports:
  max_batch_size: 5000
  allowed_buyers:
    - id: acme-labs
      biomes: [meadow]
      classification_level: SECRET
governance:
  novelty:
    baseline_tokens: 25
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Exports.MaxBatchSize != 5000 {
		t.Errorf("MaxBatchSize = %d, want 5000", cfg.Exports.MaxBatchSize)
	}
	if cfg.Governance.Novelty.BaselineTokens != 25 {
		t.Errorf("BaselineTokens = %d, want 25", cfg.Governance.Novelty.BaselineTokens)
	}
	// Untouched fields take defaults.
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout = %v, want default", cfg.Server.WriteTimeout)
	}
	if len(cfg.Exports.AllowedBuyers) != 1 || cfg.Exports.AllowedBuyers[0].ID != "acme-labs" {
		t.Errorf("AllowedBuyers = %+v", cfg.Exports.AllowedBuyers)
	}
}

// TestLoadConfigWithEnvOverrides tests that environment variables win over
// file values.
func TestLoadConfigWithEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gaian.yaml")
	content := "server:\n  listen_address: \"127.0.0.1:8080\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("GAIAN_SERVER_LISTEN_ADDRESS", "0.0.0.0:7000")
	t.Setenv("GAIAN_EXPORTS_MAX_BATCH_SIZE", "2000")
	t.Setenv("GAIAN_SERVER_READ_TIMEOUT", "45s")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() failed: %v", err)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:7000" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Exports.MaxBatchSize != 2000 {
		t.Errorf("MaxBatchSize = %d, want 2000", cfg.Exports.MaxBatchSize)
	}
	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("ReadTimeout = %v, want 45s", cfg.Server.ReadTimeout)
	}
}

// TestLoadConfig_MissingFile tests the missing-file error path.
func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/gaian.yaml"); err == nil {
		t.Fatalf("LoadConfig() on missing file succeeded")
	}
}
