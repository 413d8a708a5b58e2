package audit

import (
	"context"
	"time"
)

// Entry is an immutable record of one export evaluation. Exactly one entry
// exists per evaluation, regardless of outcome.
type Entry struct {
	// AuditID is the unique, strictly increasing entry identifier.
	AuditID string `json:"audit_id"`

	// Timestamp is when the entry was recorded.
	Timestamp time.Time `json:"timestamp"`

	// BuyerID is the requesting buyer.
	BuyerID string `json:"buyer_id"`

	// BiomeID is the biome the batch was collected from.
	BiomeID string `json:"biome_id"`

	// RecordCount is the number of records in the requested batch.
	RecordCount int `json:"record_count"`

	// ContentHash is the hash of the batch contents.
	ContentHash string `json:"content_hash"`

	// Status is the resolved evaluation status, for example "approved",
	// "pending_review", or "rejected_clearance".
	Status string `json:"status"`
}

// Query defines filter parameters for archive retrieval.
type Query struct {
	// BuyerID filters by buyer. Empty matches all.
	BuyerID string `json:"buyer_id,omitempty"`

	// BiomeID filters by biome. Empty matches all.
	BiomeID string `json:"biome_id,omitempty"`

	// Status filters by resolved status. Empty matches all.
	Status string `json:"status,omitempty"`

	// StartTime is the inclusive lower timestamp bound.
	StartTime *time.Time `json:"start_time,omitempty"`

	// EndTime is the inclusive upper timestamp bound.
	EndTime *time.Time `json:"end_time,omitempty"`

	// Limit caps the number of entries returned. Zero means no cap.
	Limit int `json:"limit,omitempty"`

	// Offset skips the first N matching entries.
	Offset int `json:"offset,omitempty"`
}

// Storage is a durable archive for audit entries. Implementations must be
// safe for concurrent use.
type Storage interface {
	// Append persists one entry.
	Append(ctx context.Context, entry *Entry) error

	// List retrieves archived entries matching the query, ordered by
	// audit id ascending.
	List(ctx context.Context, query *Query) ([]*Entry, error)

	// Count returns the number of archived entries matching the query.
	Count(ctx context.Context, query *Query) (int64, error)

	// Prune removes archived entries older than the cutoff and returns the
	// number removed. Pruning manages archive growth only; the in-process
	// log is untouched.
	Prune(ctx context.Context, before time.Time) (int64, error)

	// Close releases backend resources.
	Close() error
}
