package anticheat

import (
	"fmt"
	"math"

	"gaian-hq/gaian/pkg/action"
)

// checkFunc inspects one aspect of an action. It returns whether the check
// flagged the action and an optional diagnostic detail for reviewers.
// A check that lacks the data it needs must return (false, "").
type checkFunc func(cfg *Config, a *action.TelemetryAction) (bool, string)

// check pairs a flag kind with its detector. The battery below is a fixed
// ordered list; ordering is part of the contract because verdict flags and
// details are reported in battery order.
type check struct {
	flag FlagKind
	fn   checkFunc
}

// battery is the ordered set of independent checks. Every check runs on every
// evaluation; positive results accumulate rather than short-circuiting.
var battery = []check{
	{FlagPhysicsViolation, checkPhysics},
	{FlagTeleport, checkTeleport},
	{FlagBotInput, checkInputEntropy},
	{FlagSuperhumanReaction, checkReactionTime},
	{FlagExcessiveAPM, checkAPM},
	{FlagSessionAnomaly, checkSession},
	{FlagInputPattern, checkInputPattern},
}

// checkPhysics flags movement whose reported kinematics are implausible:
// either the reported velocity disagrees with the velocity implied by the
// positional delta, or the acceleration spikes beyond the movement model.
func checkPhysics(cfg *Config, a *action.TelemetryAction) (bool, string) {
	m := a.Movement
	if m == nil {
		return false, ""
	}

	if m.Acceleration > cfg.MaxAccelerationSpike {
		return true, fmt.Sprintf("acceleration %.2f exceeds %.2f", m.Acceleration, cfg.MaxAccelerationSpike)
	}

	if m.Elapsed <= 0 || m.Velocity <= 0 {
		return false, ""
	}
	implied := distance(m.From, m.To) / m.Elapsed.Seconds()
	if implied == 0 {
		return false, ""
	}
	deviation := math.Abs(m.Velocity-implied) / implied
	if deviation > cfg.MaxVelocityDeviation {
		return true, fmt.Sprintf("velocity deviation %.3f exceeds %.3f", deviation, cfg.MaxVelocityDeviation)
	}
	return false, ""
}

// checkTeleport flags a positional delta exceeding the teleport threshold
// covered within the detection window.
func checkTeleport(cfg *Config, a *action.TelemetryAction) (bool, string) {
	m := a.Movement
	if m == nil || m.Elapsed <= 0 {
		return false, ""
	}
	if m.Elapsed > cfg.TeleportWindow {
		return false, ""
	}
	d := distance(m.From, m.To)
	if d > cfg.TeleportThresholdMeters {
		return true, fmt.Sprintf("moved %.1fm in %v", d, m.Elapsed)
	}
	return false, ""
}

// checkInputEntropy flags statistically regular input suggesting scripting.
func checkInputEntropy(cfg *Config, a *action.TelemetryAction) (bool, string) {
	in := a.Input
	if in == nil {
		return false, ""
	}
	if in.Entropy < cfg.RequiredInputEntropy {
		return true, fmt.Sprintf("input entropy %.2f below %.2f", in.Entropy, cfg.RequiredInputEntropy)
	}
	return false, ""
}

// checkReactionTime flags mean stimulus-to-input latencies faster than
// humanly plausible.
func checkReactionTime(cfg *Config, a *action.TelemetryAction) (bool, string) {
	in := a.Input
	if in == nil || in.MeanReactionMillis <= 0 {
		return false, ""
	}
	if in.MeanReactionMillis < cfg.MinReactionTimeMillis {
		return true, fmt.Sprintf("mean reaction %.0fms below %.0fms", in.MeanReactionMillis, cfg.MinReactionTimeMillis)
	}
	return false, ""
}

// checkAPM flags input rates above the configured ceiling.
func checkAPM(cfg *Config, a *action.TelemetryAction) (bool, string) {
	in := a.Input
	if in == nil {
		return false, ""
	}
	if in.ActionsPerMinute > cfg.MaxActionsPerMinute {
		return true, fmt.Sprintf("%.0f apm exceeds %.0f", in.ActionsPerMinute, cfg.MaxActionsPerMinute)
	}
	return false, ""
}

// checkSession flags sessions outside the plausible duration envelope:
// drive-by farming sessions and unattended multi-day bots.
func checkSession(cfg *Config, a *action.TelemetryAction) (bool, string) {
	d := a.SessionDuration
	if d <= 0 {
		return false, ""
	}
	if d < cfg.MinSessionDuration {
		return true, fmt.Sprintf("session %v shorter than %v", d, cfg.MinSessionDuration)
	}
	if d > cfg.MaxSessionDuration {
		return true, fmt.Sprintf("session %v longer than %v", d, cfg.MaxSessionDuration)
	}
	return false, ""
}

// checkInputPattern flags macro loops: input windows dominated by repeated
// identical sequences.
func checkInputPattern(cfg *Config, a *action.TelemetryAction) (bool, string) {
	in := a.Input
	if in == nil {
		return false, ""
	}
	if in.SequenceRepetition > cfg.MaxSequenceRepetition {
		return true, fmt.Sprintf("sequence repetition %.2f exceeds %.2f", in.SequenceRepetition, cfg.MaxSequenceRepetition)
	}
	return false, ""
}

// distance returns the Euclidean distance between two world positions.
func distance(a, b action.Position) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
