package metrics

import (
	"time"

	"gaian-hq/gaian/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// GovernanceMetrics tracks metrics for the governance decision pipeline.
//
// Metrics:
//   - gaian_decisions_total: decision count by biome and decision
//   - gaian_decision_duration_seconds: evaluation duration histogram
//   - gaian_anticheat_flags_total: raised anti-cheat flags by flag kind
//   - gaian_ethics_violations_total: red-line violations by kind and severity
//   - gaian_novelty_tokens_total: granted novelty tokens by biome
type GovernanceMetrics struct {
	decisionsTotal   *prometheus.CounterVec
	decisionDuration *prometheus.HistogramVec
	flagsTotal       *prometheus.CounterVec
	violationsTotal  *prometheus.CounterVec
	tokensTotal      *prometheus.CounterVec
}

// NewGovernanceMetrics creates and registers governance metrics with the
// provided registry.
func NewGovernanceMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *GovernanceMetrics {
	gm := &GovernanceMetrics{
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "decisions_total",
				Help:      "Total number of governance decisions by biome and decision",
			},
			[]string{"biome", "decision"},
		),

		decisionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "decision_duration_seconds",
				Help:      "Duration of governance evaluations in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
			},
			[]string{"biome"},
		),

		flagsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "anticheat_flags_total",
				Help:      "Total number of raised anti-cheat flags by kind",
			},
			[]string{"flag"},
		),

		violationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "ethics_violations_total",
				Help:      "Total number of red-line ethics violations",
			},
			[]string{"violation", "severity"},
		),

		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "novelty_tokens_total",
				Help:      "Total novelty tokens granted by biome",
			},
			[]string{"biome"},
		),
	}

	registry.MustRegister(
		gm.decisionsTotal,
		gm.decisionDuration,
		gm.flagsTotal,
		gm.violationsTotal,
		gm.tokensTotal,
	)

	return gm
}

// RecordDecision records a completed governance evaluation.
func (gm *GovernanceMetrics) RecordDecision(biome, decision string, duration time.Duration) {
	gm.decisionsTotal.WithLabelValues(biome, decision).Inc()
	gm.decisionDuration.WithLabelValues(biome).Observe(duration.Seconds())
}

// RecordFlag records a single raised anti-cheat flag.
func (gm *GovernanceMetrics) RecordFlag(flag string) {
	gm.flagsTotal.WithLabelValues(flag).Inc()
}

// RecordViolation records a red-line ethics violation.
func (gm *GovernanceMetrics) RecordViolation(violation, severity string) {
	gm.violationsTotal.WithLabelValues(violation, severity).Inc()
}

// RecordTokens records granted novelty tokens.
func (gm *GovernanceMetrics) RecordTokens(biome string, tokens int) {
	if tokens > 0 {
		gm.tokensTotal.WithLabelValues(biome).Add(float64(tokens))
	}
}
