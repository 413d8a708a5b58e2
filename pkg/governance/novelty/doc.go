// Package novelty scores accepted solutions for token rewards and applies
// diminishing returns to repeated submissions of the same solution type.
//
// Scoring is deterministic given identical history state:
//
//	score = baseline_tokens
//	score *= biome_novelty_weight
//	score *= max(floor, decay_rate^(count - threshold))   (if count > threshold)
//	final = max(1, floor(score))
//
// Multipliers apply in a fixed order: biome weight first, then decay. A
// solution always earns at least one token regardless of how extreme the
// decay multiplier is; there are no zero-reward dead ends.
//
// The count used in the decay exponent is read before the submission is
// recorded, so the Nth submission sees count = N-1: the threshold-th
// submission is still undecayed. The read-then-increment pair is atomic per
// (player, solution type) key; the history is sharded by player id so that
// different players' submissions never contend.
package novelty
