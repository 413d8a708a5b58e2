// Package anticheat evaluates telemetry actions for behavioral authenticity.
//
// The evaluator runs an ordered battery of independent checks (physics
// plausibility, teleport detection, input entropy, reaction time, APM
// ceiling, session duration, input patterns). Checks never short-circuit:
// every check runs and every positive result is collected as a flag, so that
// partial evidence across several weak signals stays visible to a reviewer
// even when no single check fails decisively.
//
// Confidence is a linear penalty, not a calibrated probability:
//
//	confidence = max(0, 1 - 0.2 * flag_count)
//
// A check that cannot evaluate (missing movement or input data) defaults to
// "not flagged". Under-detection is preferred over false accusation at this
// layer; the ethics and review layers are the backstop.
//
// The evaluator owns the cumulative per-player flag history. The history is
// sharded by player id so that concurrent evaluations for different players
// never contend on the same lock.
package anticheat
