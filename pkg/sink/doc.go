// Package sink captures accepted actions as training records. Records are
// enqueued on the decision path and written to the backend by a background
// worker, so a slow downstream write never delays the governance decision
// returned to the caller. The contract is eventually durable, not
// synchronous.
package sink
