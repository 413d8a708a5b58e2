package sink

import (
	"context"
	"time"
)

// TrainingRecord is one accepted action captured for the training corpus.
type TrainingRecord struct {
	// ID is a UUID assigned at capture time.
	ID string `json:"id"`

	// PlayerID is the submitting player.
	PlayerID string `json:"player_id"`

	// SessionID is the gameplay session the action belongs to.
	SessionID string `json:"session_id"`

	// BiomeID is the biome the action occurred in.
	BiomeID string `json:"biome_id"`

	// Kind is the action kind.
	Kind string `json:"kind"`

	// SolutionType is the player's solution category.
	SolutionType string `json:"solution_type"`

	// NoveltyTokens is the reward credited for the action, zero when the
	// scoring stage yielded no reward.
	NoveltyTokens int `json:"novelty_tokens"`

	// Reasoning is the player-supplied reasoning text.
	Reasoning string `json:"reasoning,omitempty"`

	// RecordedAt is when the record was captured.
	RecordedAt time.Time `json:"recorded_at"`
}

// Storage is a durable backend for training records. Implementations must
// be safe for concurrent use.
type Storage interface {
	// Store persists one training record.
	Store(ctx context.Context, record *TrainingRecord) error

	// Count returns the number of stored records, optionally filtered by
	// biome. An empty biome id counts everything.
	Count(ctx context.Context, biomeID string) (int64, error)

	// Close releases backend resources.
	Close() error
}
