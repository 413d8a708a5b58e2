// Package ethics enforces moral red-lines on telemetry actions.
//
// The filter runs a fixed battery of red-line detectors, each gated by the
// composed effective rules for the action's biome. A detector that is
// disabled in the effective rules does not run at all, for cost and
// false-positive avoidance.
//
// Severity is derived purely from violation kind membership in the fixed
// critical subset (terror instruction, bioweapon synthesis, child harm,
// real-world targeting); it never depends on violation count. Any other
// violation yields warning severity.
//
// The filter is stateless: the same action and rules always produce the same
// verdict. Biome special rules (for example the Uprising biome's
// human-hunting detection) run as additional detectors named by the rule set.
package ethics
