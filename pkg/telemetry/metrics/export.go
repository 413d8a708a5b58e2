package metrics

import (
	"gaian-hq/gaian/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ExportMetrics tracks metrics for the export gate, the audit trail,
// and the training data sink.
//
// Metrics:
//   - gaian_export_decisions_total: export decisions by buyer and decision
//   - gaian_audit_entries_total: appended audit entries by status
//   - gaian_sink_records_total: training records handed to the sink
type ExportMetrics struct {
	exportDecisionsTotal *prometheus.CounterVec
	auditEntriesTotal    *prometheus.CounterVec
	sinkRecordsTotal     *prometheus.CounterVec
}

// NewExportMetrics creates and registers export metrics with the
// provided registry.
func NewExportMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ExportMetrics {
	em := &ExportMetrics{
		exportDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "export_decisions_total",
				Help:      "Total number of export gate decisions by buyer and decision",
			},
			[]string{"buyer", "decision"},
		),

		auditEntriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "audit_entries_total",
				Help:      "Total number of audit entries appended by status",
			},
			[]string{"status"},
		),

		sinkRecordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "sink_records_total",
				Help:      "Total training records offered to the sink",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		em.exportDecisionsTotal,
		em.auditEntriesTotal,
		em.sinkRecordsTotal,
	)

	return em
}

// RecordDecision records the outcome of an export evaluation.
func (em *ExportMetrics) RecordDecision(buyer, decision string) {
	em.exportDecisionsTotal.WithLabelValues(buyer, decision).Inc()
}

// RecordAuditEntry records that an audit entry was appended.
func (em *ExportMetrics) RecordAuditEntry(status string) {
	em.auditEntriesTotal.WithLabelValues(status).Inc()
}

// RecordSinkCapture records a training record offered to the sink.
func (em *ExportMetrics) RecordSinkCapture(dropped bool) {
	outcome := "captured"
	if dropped {
		outcome = "dropped"
	}
	em.sinkRecordsTotal.WithLabelValues(outcome).Inc()
}
