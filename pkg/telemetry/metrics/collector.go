package metrics

import (
	"time"

	"gaian-hq/gaian/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the orchestrator for all Prometheus metrics in the
// service. It manages metric registration and provides a unified
// interface for recording metrics from the governance engine, the
// export gate, and the training sink.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	governanceMetrics *GovernanceMetrics
	exportMetrics     *ExportMetrics
}

// NewCollector creates a metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "gaian"
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.governanceMetrics = NewGovernanceMetrics(cfg, registry)
	c.exportMetrics = NewExportMetrics(cfg, registry)

	return c
}

// RecordDecision records a completed governance evaluation.
//
// Parameters:
//   - biome: biome identifier of the action
//   - decision: final policy decision ("accept", "flag_for_review",
//     "reject", "quarantine")
//   - duration: evaluation wall time
func (c *Collector) RecordDecision(biome, decision string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.governanceMetrics.RecordDecision(biome, decision, duration)
}

// RecordAntiCheatFlag records a single raised anti-cheat flag.
func (c *Collector) RecordAntiCheatFlag(flag string) {
	if !c.config.Enabled {
		return
	}
	c.governanceMetrics.RecordFlag(flag)
}

// RecordEthicsViolation records a red-line ethics violation.
func (c *Collector) RecordEthicsViolation(violation, severity string) {
	if !c.config.Enabled {
		return
	}
	c.governanceMetrics.RecordViolation(violation, severity)
}

// RecordNoveltyTokens records a token grant for an accepted submission.
func (c *Collector) RecordNoveltyTokens(biome string, tokens int) {
	if !c.config.Enabled {
		return
	}
	c.governanceMetrics.RecordTokens(biome, tokens)
}

// RecordExportDecision records the outcome of an export evaluation.
//
// Parameters:
//   - buyer: buyer identifier from the request
//   - decision: gate decision ("approved", "pending_review", "rejected")
func (c *Collector) RecordExportDecision(buyer, decision string) {
	if !c.config.Enabled {
		return
	}
	c.exportMetrics.RecordDecision(buyer, decision)
}

// RecordAuditEntry records that an audit entry was appended.
func (c *Collector) RecordAuditEntry(status string) {
	if !c.config.Enabled {
		return
	}
	c.exportMetrics.RecordAuditEntry(status)
}

// RecordSinkCapture records a training record handed to the sink.
// Dropped is true when the record was discarded due to backpressure.
func (c *Collector) RecordSinkCapture(dropped bool) {
	if !c.config.Enabled {
		return
	}
	c.exportMetrics.RecordSinkCapture(dropped)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
