package action

import (
	"fmt"
	"time"
)

// Kind identifies the type of player action.
type Kind string

const (
	KindPickup   Kind = "pickup"
	KindDrop     Kind = "drop"
	KindUse      Kind = "use"
	KindCraft    Kind = "craft"
	KindInteract Kind = "interact"
	KindMove     Kind = "move"
	KindAttack   Kind = "attack"
	KindTrade    Kind = "trade"
	KindDialogue Kind = "dialogue"
	KindInspect  Kind = "inspect"
)

// validKinds is the closed set of accepted action kinds.
var validKinds = map[Kind]bool{
	KindPickup:   true,
	KindDrop:     true,
	KindUse:      true,
	KindCraft:    true,
	KindInteract: true,
	KindMove:     true,
	KindAttack:   true,
	KindTrade:    true,
	KindDialogue: true,
	KindInspect:  true,
}

// Valid reports whether k is a known action kind.
func (k Kind) Valid() bool {
	return validKinds[k]
}

// Position is a 3D position in the game world.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// GameState is a snapshot of the player's state at the time of the action.
// It provides context for downstream training-data capture and for the
// anti-cheat plausibility checks.
type GameState struct {
	// Health, Hunger, Thirst, Stamina are vitals in [0, 100].
	Health  float64 `json:"health" yaml:"health"`
	Hunger  float64 `json:"hunger" yaml:"hunger"`
	Thirst  float64 `json:"thirst" yaml:"thirst"`
	Stamina float64 `json:"stamina" yaml:"stamina"`

	// Karma is the player's karma point balance.
	Karma int `json:"karma" yaml:"karma"`

	// Profession is the player's primary profession, if any.
	Profession string `json:"profession,omitempty" yaml:"profession,omitempty"`

	// SkillLevels maps skill name to level.
	SkillLevels map[string]int `json:"skill_levels,omitempty" yaml:"skill_levels,omitempty"`

	// InventoryCount is the number of items in the player's inventory.
	InventoryCount int `json:"inventory_count" yaml:"inventory_count"`

	// EquippedTool is the currently equipped tool, if any.
	EquippedTool string `json:"equipped_tool,omitempty" yaml:"equipped_tool,omitempty"`
}

// Movement captures the kinematics of a move action, used by the anti-cheat
// physics and teleport checks. A nil Movement means the action carried no
// movement data; checks that need it must default to "not flagged".
type Movement struct {
	// From and To are the positions at the start and end of the sample.
	From Position `json:"from"`
	To   Position `json:"to"`

	// Velocity is the reported speed in meters per second.
	Velocity float64 `json:"velocity"`

	// Acceleration is the reported acceleration in m/s^2.
	Acceleration float64 `json:"acceleration"`

	// Elapsed is the wall-clock duration of the sample.
	Elapsed time.Duration `json:"elapsed"`
}

// InputSample captures raw input telemetry for a window of play, used by the
// input-entropy, reaction-time, and APM checks. A nil InputSample means no
// input data was reported.
type InputSample struct {
	// Entropy is the normalized Shannon entropy of input intervals in [0, 1].
	// Values near 0 indicate machine-regular input.
	Entropy float64 `json:"entropy"`

	// MeanReactionMillis is the mean stimulus-to-input latency in milliseconds.
	MeanReactionMillis float64 `json:"mean_reaction_millis"`

	// ActionsPerMinute is the observed input rate over the sample window.
	ActionsPerMinute float64 `json:"actions_per_minute"`

	// SequenceRepetition is the fraction of the window covered by repeated
	// identical input sequences in [0, 1]. Values near 1 indicate a macro loop.
	SequenceRepetition float64 `json:"sequence_repetition"`
}

// TelemetryAction is one player-submitted action record. It is immutable once
// received; the pipeline never writes to it.
type TelemetryAction struct {
	// PlayerID is the opaque, anonymized player identifier.
	PlayerID string `json:"player_id"`

	// SessionID identifies the game session the action belongs to.
	SessionID string `json:"session_id"`

	// Kind is the type of action performed.
	Kind Kind `json:"kind"`

	// SolutionType classifies the solution the action represents, used as the
	// diminishing-returns key by the novelty scorer. Empty means "unknown".
	SolutionType string `json:"solution_type,omitempty"`

	// Target is the object or entity the action was performed on, if any.
	Target string `json:"target,omitempty"`

	// Position is where the action occurred in the world.
	Position Position `json:"position"`

	// State is the player's game state at action time.
	State GameState `json:"state"`

	// Movement holds kinematics for movement actions. Optional.
	Movement *Movement `json:"movement,omitempty"`

	// Input holds input telemetry for the surrounding window. Optional.
	Input *InputSample `json:"input,omitempty"`

	// SessionDuration is how long the session had been running at action time.
	SessionDuration time.Duration `json:"session_duration"`

	// Reasoning is the player's optional free-text explanation of the action.
	// High value for training data; also scanned by the ethics detectors.
	Reasoning string `json:"reasoning,omitempty"`

	// Timestamp is when the action occurred (UTC).
	Timestamp time.Time `json:"timestamp"`
}

// maxReasoningLength bounds the free-text rationale, matching the ingest
// contract of the game client.
const maxReasoningLength = 1000

// Validate checks the action's required fields. It returns an input error for
// the first malformed field found; a malformed action must not be scored.
func (a *TelemetryAction) Validate() error {
	if a == nil {
		return fmt.Errorf("%w: action is nil", ErrInvalidAction)
	}
	if a.PlayerID == "" {
		return fmt.Errorf("%w: player_id is required", ErrInvalidAction)
	}
	if a.SessionID == "" {
		return fmt.Errorf("%w: session_id is required", ErrInvalidAction)
	}
	if !a.Kind.Valid() {
		return fmt.Errorf("%w: unknown action kind %q", ErrInvalidAction, a.Kind)
	}
	if len(a.Reasoning) > maxReasoningLength {
		return fmt.Errorf("%w: reasoning exceeds %d characters", ErrInvalidAction, maxReasoningLength)
	}
	if a.Timestamp.IsZero() {
		return fmt.Errorf("%w: timestamp is required", ErrInvalidAction)
	}
	return nil
}
