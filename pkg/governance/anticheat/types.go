package anticheat

import "time"

// FlagKind identifies a category of detected cheating behavior.
type FlagKind string

const (
	FlagBotInput           FlagKind = "bot_input"
	FlagPhysicsViolation   FlagKind = "physics_violation"
	FlagTeleport           FlagKind = "teleport"
	FlagSuperhumanReaction FlagKind = "superhuman_reaction"
	FlagExcessiveAPM       FlagKind = "excessive_apm"
	FlagSessionAnomaly     FlagKind = "session_anomaly"
	FlagInputPattern       FlagKind = "input_pattern"
)

// HardFlags are high-confidence automation signatures. A verdict carrying any
// of these causes outright rejection upstream; everything else is a soft flag
// that routes to human review.
var HardFlags = map[FlagKind]bool{
	FlagPhysicsViolation: true,
	FlagTeleport:         true,
}

// Verdict is the result of an anti-cheat evaluation.
type Verdict struct {
	// Passed is true iff no check flagged the action.
	Passed bool `json:"passed"`

	// Flags lists the flagged checks in battery order.
	Flags []FlagKind `json:"flags"`

	// Confidence is the evaluator's trust in the action, in [0, 1]. It
	// decreases monotonically with flag count.
	Confidence float64 `json:"confidence"`

	// Details carries per-check diagnostic values for reviewers.
	Details map[string]any `json:"details,omitempty"`
}

// HasHardFlag reports whether any flag is a high-confidence automation
// signature.
func (v *Verdict) HasHardFlag() bool {
	for _, f := range v.Flags {
		if HardFlags[f] {
			return true
		}
	}
	return false
}

// Config contains the detection thresholds for the check battery.
type Config struct {
	// MaxVelocityDeviation is the allowed fractional deviation between the
	// reported velocity and the velocity implied by positions and elapsed
	// time. Default: 0.05.
	MaxVelocityDeviation float64 `yaml:"max_velocity_deviation"`

	// MaxAccelerationSpike is the maximum plausible acceleration in m/s^2
	// relative to the game's movement model. Default: 2.0.
	MaxAccelerationSpike float64 `yaml:"max_acceleration_spike"`

	// TeleportThresholdMeters is the positional delta that counts as a
	// teleport when covered within TeleportWindow. Default: 10.0.
	TeleportThresholdMeters float64 `yaml:"teleport_threshold_meters"`

	// TeleportWindow is the time window for teleport detection. Default: 1s.
	TeleportWindow time.Duration `yaml:"teleport_window"`

	// RequiredInputEntropy is the minimum normalized input entropy expected
	// from a human. Default: 0.8.
	RequiredInputEntropy float64 `yaml:"required_input_entropy"`

	// MinReactionTimeMillis is the fastest humanly plausible mean reaction
	// time in milliseconds. Default: 150.
	MinReactionTimeMillis float64 `yaml:"min_reaction_time_ms"`

	// MaxActionsPerMinute is the APM ceiling. Default: 900 (15/s).
	MaxActionsPerMinute float64 `yaml:"max_actions_per_minute"`

	// MaxSequenceRepetition is the maximum fraction of the input window that
	// may consist of repeated identical sequences. Default: 0.9.
	MaxSequenceRepetition float64 `yaml:"max_sequence_repetition"`

	// MinSessionDuration flags sessions shorter than this at action time
	// (drive-by farming sessions). Default: 60s.
	MinSessionDuration time.Duration `yaml:"min_session_duration"`

	// MaxSessionDuration flags sessions longer than this (unattended bots).
	// Default: 12h.
	MaxSessionDuration time.Duration `yaml:"max_session_duration"`
}

// DefaultConfig returns the default anti-cheat thresholds.
func DefaultConfig() *Config {
	return &Config{
		MaxVelocityDeviation:    0.05,
		MaxAccelerationSpike:    2.0,
		TeleportThresholdMeters: 10.0,
		TeleportWindow:          time.Second,
		RequiredInputEntropy:    0.8,
		MinReactionTimeMillis:   150,
		MaxActionsPerMinute:     900,
		MaxSequenceRepetition:   0.9,
		MinSessionDuration:      60 * time.Second,
		MaxSessionDuration:      12 * time.Hour,
	}
}
