// Package gate implements the terminal export authorizer. It runs a fixed,
// ordered sequence of short-circuiting checks over an export request:
// batch size, buyer authorization, biome access, clearance, then the human
// review threshold. The first failing check determines the outcome and the
// reported reason.
//
// The gate is the irreversible-harm boundary, so its failure mode is the
// opposite of the action pipeline's: any fault inside a check rejects the
// request (fail closed). Every evaluation records exactly one audit entry,
// whatever the outcome, and the audit id is returned to the caller. The
// gate never reads the audit log when deciding.
package gate
