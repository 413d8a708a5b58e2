// Package engine orchestrates the governance decision pipeline: anti-cheat,
// ethics filtering against biome-composed rules, and novelty scoring, folded
// into one terminal decision per action.
//
// # Sequencing
//
//  1. Anti-cheat runs first. A failed verdict carrying a hard flag (physics
//     violation, teleport) rejects the action outright; ethics and novelty
//     are not evaluated for a rejected submission.
//  2. The ethics filter runs against the biome-composed rules. Critical
//     severity quarantines the action for human disposition; quarantine
//     outranks any warning-level anti-cheat flag.
//  3. Warning-severity ethics concerns, or anti-cheat failures carrying only
//     soft flags, route the action to human review.
//  4. A clean action is scored for novelty and accepted with the token
//     amount in the decision metadata.
//
// Result confidence is the anti-cheat confidence, except for quarantine,
// where it is 1.0: certainty of the rule match, not of underlying cheating.
//
// # Failure semantics
//
// A failed sub-evaluator never crashes the pipeline and never causes an
// automatic rejection. It is treated as "no evidence" for its stage and
// logged; the pipeline fails open for availability because the export-side
// data gate is the true choke point for irreversible harm. Action evaluation
// always returns a decision.
package engine
