// Package server provides the HTTP surface of the governance service.
//
// # Endpoints
//
//   - POST /api/v1/actions: evaluate one telemetry action
//   - POST /api/v1/exports: evaluate one export request
//   - GET  /api/v1/audit: list audit entries
//   - POST /api/v1/admin/reset-flags: clear a player's anti-cheat history
//   - POST /api/v1/admin/reset-novelty: clear novelty history
//   - GET  /healthz, /readyz, /version: probes and build info
//   - GET  /metrics: Prometheus exposition (path configurable)
//
// The middleware chain is recovery, request id, then request logging,
// outermost first. Handlers record metrics and hand accepted actions to
// the training sink.
package server
