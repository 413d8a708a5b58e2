// Package health provides liveness and readiness probes for the
// governance service. Components such as the biome rule registry, the
// audit archive, and the training sink register probe functions at
// startup; the readiness endpoint aggregates them and degrades when any
// component reports unhealthy.
package health
