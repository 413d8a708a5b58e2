package anticheat

import (
	"fmt"
	"log/slog"

	"gaian-hq/gaian/pkg/action"
)

// confidencePenalty is the per-flag confidence reduction. Linear by design:
// one flag leaves the action mostly trusted, three or more flags leave it
// effectively distrusted.
const confidencePenalty = 0.2

// AntiCheat evaluates actions for authentic human behavior and owns the
// cumulative per-player flag history.
type AntiCheat struct {
	config  *Config
	history *flagHistory
	logger  *slog.Logger
}

// New creates an anti-cheat evaluator with the given thresholds.
func New(cfg *Config, logger *slog.Logger) *AntiCheat {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AntiCheat{
		config:  cfg,
		history: newFlagHistory(),
		logger:  logger.With("component", "anticheat"),
	}
}

// Evaluate runs the full check battery against the action. All checks run;
// none short-circuits. On any flag, the player's cumulative flag count is
// incremented by the flag count of this evaluation, so repeat offenders
// accumulate faster than one flag per incident.
func (ac *AntiCheat) Evaluate(a *action.TelemetryAction, playerID string) (Verdict, error) {
	if playerID == "" {
		return Verdict{}, fmt.Errorf("player id cannot be empty")
	}

	var flags []FlagKind
	details := make(map[string]any)

	for _, c := range battery {
		flagged, detail := ac.runCheck(c, a)
		if flagged {
			flags = append(flags, c.flag)
			if detail != "" {
				details[string(c.flag)] = detail
			}
		}
	}

	if len(flags) > 0 {
		ac.history.Add(playerID, len(flags))
		ac.logger.Debug("action flagged",
			"player_id", playerID,
			"flags", flags,
			"cumulative_flags", ac.history.Count(playerID),
		)
	}

	confidence := 1.0 - confidencePenalty*float64(len(flags))
	if confidence < 0 {
		confidence = 0
	}

	return Verdict{
		Passed:     len(flags) == 0,
		Flags:      flags,
		Confidence: confidence,
		Details:    details,
	}, nil
}

// runCheck executes one check, recovering panics as "not flagged". A check
// that cannot evaluate must not take an action down with it; under-detection
// is preferred over false accusation here.
func (ac *AntiCheat) runCheck(c check, a *action.TelemetryAction) (flagged bool, detail string) {
	defer func() {
		if r := recover(); r != nil {
			ac.logger.Error("check panicked, treating as not flagged",
				"check", string(c.flag),
				"panic", r,
			)
			flagged = false
			detail = ""
		}
	}()
	return c.fn(ac.config, a)
}

// FlagCount returns the cumulative flag count for a player.
func (ac *AntiCheat) FlagCount(playerID string) int {
	return ac.history.Count(playerID)
}

// ResetPlayerFlags clears a player's flag history. This is an explicit
// administrative operation (appeals, corrections), not an automatic recovery
// path.
func (ac *AntiCheat) ResetPlayerFlags(playerID string) {
	ac.history.Reset(playerID)
	ac.logger.Info("player flag history reset", "player_id", playerID)
}
