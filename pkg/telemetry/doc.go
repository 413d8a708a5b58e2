// Package telemetry groups the observability surfaces of the governance
// service.
//
// # Components
//
//   - logging: structured logging on log/slog with context helpers
//   - metrics: Prometheus metrics for decisions, exports, and the sink
//   - health: liveness and readiness probes
//
// Each subpackage is wired independently at startup; there is no shared
// telemetry object. The server mounts the metrics handler and the health
// endpoints, and the default logger is installed process-wide.
package telemetry
