package novelty

import (
	"fmt"
	"log/slog"
	"math"

	"gaian-hq/gaian/pkg/action"
	"gaian-hq/gaian/pkg/biome"
)

// Multiplier names, in application order.
const (
	MultiplierBiomeWeight        = "biome_weight"
	MultiplierDiminishingReturns = "diminishing_returns"
)

// Multiplier is one named scoring factor. Score multipliers are reported as
// an ordered list because application order is part of the contract.
type Multiplier struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Score is the result of a novelty evaluation.
type Score struct {
	// BaseTokens is the configured baseline before multipliers.
	BaseTokens int `json:"base_tokens"`

	// Multipliers lists applied factors in order: biome weight, then decay.
	Multipliers []Multiplier `json:"multipliers"`

	// FinalTokens is max(1, floor(base * product of multipliers)).
	FinalTokens int `json:"final_tokens"`

	// DiminishingApplied is true when decay was multiplied in.
	DiminishingApplied bool `json:"diminishing_applied"`
}

// DiminishingConfig controls repeated-submission decay.
type DiminishingConfig struct {
	// Enabled turns decay on. Default: true.
	Enabled bool `yaml:"enabled"`

	// Threshold is the submission count a player may reach per solution type
	// before decay starts. The threshold-th submission is still undecayed.
	// Default: 100.
	Threshold int `yaml:"threshold"`

	// DecayRate is the per-excess-submission decay base. Default: 0.95.
	DecayRate float64 `yaml:"decay_rate"`

	// Floor is the minimum decay multiplier. Default: 0.1.
	Floor float64 `yaml:"floor"`
}

// Config contains scorer configuration.
type Config struct {
	// BaselineTokens is the base reward before multipliers. Default: 10.
	BaselineTokens int `yaml:"baseline_tokens"`

	// Diminishing controls repeated-submission decay.
	Diminishing DiminishingConfig `yaml:"diminishing_returns"`
}

// DefaultConfig returns the default scorer configuration.
func DefaultConfig() *Config {
	return &Config{
		BaselineTokens: 10,
		Diminishing: DiminishingConfig{
			Enabled:   true,
			Threshold: 100,
			DecayRate: 0.95,
			Floor:     0.1,
		},
	}
}

// unknownSolutionType is the history key for actions without a declared
// solution type.
const unknownSolutionType = "unknown"

// Scorer computes novelty token rewards and owns the per-player solution
// history that drives diminishing returns.
type Scorer struct {
	config  *Config
	history *solutionHistory
	logger  *slog.Logger
}

// NewScorer creates a novelty scorer.
func NewScorer(cfg *Config, logger *slog.Logger) *Scorer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{
		config:  cfg,
		history: newSolutionHistory(),
		logger:  logger.With("component", "novelty"),
	}
}

// Score computes the token reward for an accepted solution and records the
// submission. The decay exponent uses the count read before this submission
// is recorded; the read-then-record pair is atomic per (player, type) key.
func (s *Scorer) Score(a *action.TelemetryAction, rules biome.EffectiveRules, playerID string) (Score, error) {
	if playerID == "" {
		return Score{}, fmt.Errorf("player id cannot be empty")
	}

	solutionType := a.SolutionType
	if solutionType == "" {
		solutionType = unknownSolutionType
	}

	score := float64(s.config.BaselineTokens)
	multipliers := make([]Multiplier, 0, 2)

	weight := rules.NoveltyWeight
	score *= weight
	multipliers = append(multipliers, Multiplier{Name: MultiplierBiomeWeight, Value: weight})

	diminished := false
	if s.config.Diminishing.Enabled {
		count := s.history.readAndIncrement(playerID, solutionType)
		if count > s.config.Diminishing.Threshold {
			decay := math.Pow(s.config.Diminishing.DecayRate, float64(count-s.config.Diminishing.Threshold))
			if decay < s.config.Diminishing.Floor {
				decay = s.config.Diminishing.Floor
			}
			score *= decay
			multipliers = append(multipliers, Multiplier{Name: MultiplierDiminishingReturns, Value: decay})
			diminished = true
		}
	}

	final := int(math.Floor(score))
	if final < 1 {
		final = 1
	}

	return Score{
		BaseTokens:         s.config.BaselineTokens,
		Multipliers:        multipliers,
		FinalTokens:        final,
		DiminishingApplied: diminished,
	}, nil
}

// SubmissionCount returns the recorded submissions for a (player, type) key.
func (s *Scorer) SubmissionCount(playerID, solutionType string) int {
	if solutionType == "" {
		solutionType = unknownSolutionType
	}
	return s.history.count(playerID, solutionType)
}

// ResetHistory clears the solution history for one player, or for everyone
// when playerID is empty. This is an explicit, audited administrative
// operation used for appeals and corrections, never an automatic path.
func (s *Scorer) ResetHistory(playerID string) {
	if playerID == "" {
		s.history.resetAll()
		s.logger.Info("solution history reset for all players")
		return
	}
	s.history.resetPlayer(playerID)
	s.logger.Info("solution history reset", "player_id", playerID)
}
