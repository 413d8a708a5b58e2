// Package metrics provides Prometheus instrumentation for the governance
// pipeline and the export gate.
//
// The Collector owns a private registry and groups metrics by concern:
// governance decisions, anti-cheat flags, ethics violations, novelty
// token grants, export decisions, and sink activity. All recording
// methods are no-ops when metrics are disabled in configuration.
package metrics
