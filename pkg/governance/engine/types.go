package engine

import (
	"gaian-hq/gaian/pkg/governance/anticheat"
	"gaian-hq/gaian/pkg/governance/ethics"
	"gaian-hq/gaian/pkg/governance/novelty"
)

// Decision is the terminal outcome of one action's governance evaluation.
// It is never revisited for the same action.
type Decision string

const (
	// DecisionAccept accepts the action and credits novelty tokens.
	DecisionAccept Decision = "accept"

	// DecisionFlagForReview holds the action for human review.
	DecisionFlagForReview Decision = "flag_for_review"

	// DecisionReject rejects the action: no reward, no training-data capture.
	DecisionReject Decision = "reject"

	// DecisionQuarantine holds the content, rather than silently dropping
	// it, for human disposition.
	DecisionQuarantine Decision = "quarantine"
)

// Metadata keys attached to results.
const (
	MetaBiomeID       = "biome_id"
	MetaNoveltyTokens = "novelty_tokens"
	MetaEthicsLevel   = "ethics_level"
)

// Result is the outcome of one governance evaluation.
type Result struct {
	// Decision is the terminal governance decision.
	Decision Decision `json:"decision"`

	// Confidence is the anti-cheat confidence, or 1.0 for a hard ethics
	// quarantine.
	Confidence float64 `json:"confidence"`

	// Reasons lists human-readable grounds for the decision, in the order
	// the pipeline produced them.
	Reasons []string `json:"reasons"`

	// Metadata carries decision context (biome id, novelty tokens on accept).
	Metadata map[string]any `json:"metadata,omitempty"`

	// AntiCheat is the anti-cheat verdict, nil if the stage yielded no
	// evidence.
	AntiCheat *anticheat.Verdict `json:"anti_cheat,omitempty"`

	// Ethics is the ethics verdict, nil when the stage was skipped or
	// yielded no evidence.
	Ethics *ethics.Verdict `json:"ethics,omitempty"`

	// Novelty is the novelty score, present only on accept.
	Novelty *novelty.Score `json:"novelty,omitempty"`
}
