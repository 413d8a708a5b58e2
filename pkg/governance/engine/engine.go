package engine

import (
	"context"
	"fmt"
	"log/slog"

	"gaian-hq/gaian/pkg/action"
	"gaian-hq/gaian/pkg/biome"
	"gaian-hq/gaian/pkg/governance/anticheat"
	"gaian-hq/gaian/pkg/governance/ethics"
	"gaian-hq/gaian/pkg/governance/novelty"
)

// Engine is the governance decision pipeline. It composes the biome registry
// with the global rules, sequences anti-cheat, ethics, and novelty scoring,
// and renders one decision per action.
type Engine struct {
	antiCheat *anticheat.AntiCheat
	ethics    *ethics.Filter
	novelty   *novelty.Scorer
	biomes    *biome.Provider
	logger    *slog.Logger
}

// New creates a governance engine. All collaborators are required.
func New(ac *anticheat.AntiCheat, ef *ethics.Filter, ns *novelty.Scorer, biomes *biome.Provider, logger *slog.Logger) (*Engine, error) {
	if ac == nil || ef == nil || ns == nil {
		return nil, fmt.Errorf("anti-cheat, ethics filter, and novelty scorer are required")
	}
	if biomes == nil {
		return nil, fmt.Errorf("biome provider is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		antiCheat: ac,
		ethics:    ef,
		novelty:   ns,
		biomes:    biomes,
		logger:    logger.With("component", "governance.engine"),
	}, nil
}

// EvaluateAction evaluates one telemetry action and always returns a
// decision; no sub-evaluator fault bubbles to the caller. Malformed actions
// are the one exception: input errors are surfaced immediately, since a
// malformed request must not be scored.
func (e *Engine) EvaluateAction(ctx context.Context, a *action.TelemetryAction, playerID, biomeID string) (*Result, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if playerID == "" {
		return nil, fmt.Errorf("%w: player_id is required", action.ErrInvalidAction)
	}

	rules := e.biomes.Registry().Get(biomeID)
	result := &Result{
		Metadata: map[string]any{
			MetaBiomeID:     biomeID,
			MetaEthicsLevel: string(rules.EthicsLevel),
		},
	}

	// Stage 1: anti-cheat. Hard flags are high-confidence automation
	// signatures; everything downstream is skipped for a rejected action.
	acVerdict := e.runAntiCheat(a, playerID)
	result.AntiCheat = acVerdict
	result.Confidence = acVerdict.Confidence

	if !acVerdict.Passed && acVerdict.HasHardFlag() {
		result.Decision = DecisionReject
		result.Reasons = append(result.Reasons, fmt.Sprintf("anti-cheat flags: %v", acVerdict.Flags))
		e.logDecision(result, playerID, biomeID)
		return result, nil
	}

	// Stage 2: ethics against the biome-composed rules. Quarantine outranks
	// any warning-level anti-cheat flag.
	ethVerdict := e.runEthics(a, rules)
	result.Ethics = ethVerdict

	if ethVerdict.Severity == ethics.SeverityCritical {
		result.Decision = DecisionQuarantine
		result.Confidence = 1.0 // certainty of the rule match, not of cheating
		result.Reasons = append(result.Reasons, fmt.Sprintf("critical ethics violations: %v", ethVerdict.Violations))
		e.logDecision(result, playerID, biomeID)
		return result, nil
	}

	// Stage 3: non-critical concerns from either evaluator route to review.
	if ethVerdict.Severity == ethics.SeverityWarning || !acVerdict.Passed {
		result.Decision = DecisionFlagForReview
		if ethVerdict.Severity == ethics.SeverityWarning {
			result.Reasons = append(result.Reasons, fmt.Sprintf("ethics violations: %v", ethVerdict.Violations))
		}
		if !acVerdict.Passed {
			result.Reasons = append(result.Reasons, fmt.Sprintf("anti-cheat flags: %v", acVerdict.Flags))
		}
		e.logDecision(result, playerID, biomeID)
		return result, nil
	}

	// Stage 4: clean action, score and accept.
	result.Decision = DecisionAccept
	if score, ok := e.runNovelty(a, rules, playerID); ok {
		result.Novelty = score
		result.Metadata[MetaNoveltyTokens] = score.FinalTokens
	}
	e.logDecision(result, playerID, biomeID)
	return result, nil
}

// runAntiCheat executes the anti-cheat stage, treating faults as no
// evidence: a passing verdict with full confidence.
func (e *Engine) runAntiCheat(a *action.TelemetryAction, playerID string) *anticheat.Verdict {
	verdict, err := e.antiCheat.Evaluate(a, playerID)
	if err != nil {
		e.logger.Error("anti-cheat stage failed, treating as no evidence",
			"player_id", playerID,
			"error", err,
		)
		return &anticheat.Verdict{Passed: true, Confidence: 1.0}
	}
	return &verdict
}

// runEthics executes the ethics stage; the filter recovers detector faults
// internally, so the only fault mode left is a panic in the filter itself.
func (e *Engine) runEthics(a *action.TelemetryAction, rules biome.EffectiveRules) (verdict *ethics.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("ethics stage panicked, treating as no evidence", "panic", r)
			verdict = &ethics.Verdict{Passed: true, Severity: ethics.SeverityNone}
		}
	}()
	v := e.ethics.Evaluate(a, rules)
	return &v
}

// runNovelty executes the scoring stage. A fault here must not disturb the
// accept decision; the action is simply accepted without a token amount.
func (e *Engine) runNovelty(a *action.TelemetryAction, rules biome.EffectiveRules, playerID string) (*novelty.Score, bool) {
	score, err := e.novelty.Score(a, rules, playerID)
	if err != nil {
		e.logger.Error("novelty stage failed, accepting without reward",
			"player_id", playerID,
			"error", err,
		)
		return nil, false
	}
	return &score, true
}

func (e *Engine) logDecision(r *Result, playerID, biomeID string) {
	e.logger.Info("governance decision",
		"decision", string(r.Decision),
		"player_id", playerID,
		"biome_id", biomeID,
		"confidence", r.Confidence,
		"reasons", r.Reasons,
	)
}

// ResetPlayerFlags clears a player's anti-cheat flag history. Explicit
// administrative operation.
func (e *Engine) ResetPlayerFlags(playerID string) {
	e.antiCheat.ResetPlayerFlags(playerID)
}

// ResetNoveltyHistory clears novelty history for one player, or globally
// when playerID is empty. Explicit administrative operation.
func (e *Engine) ResetNoveltyHistory(playerID string) {
	e.novelty.ResetHistory(playerID)
}

// PlayerFlagCount returns a player's cumulative anti-cheat flag count.
func (e *Engine) PlayerFlagCount(playerID string) int {
	return e.antiCheat.FlagCount(playerID)
}
