package export

import (
	"fmt"
	"time"
)

// Decision is the outcome of one export evaluation.
type Decision string

const (
	// DecisionApproved releases the batch to the buyer.
	DecisionApproved Decision = "approved"

	// DecisionPendingReview holds the batch awaiting explicit human action.
	// This is a hold state, not a rejection.
	DecisionPendingReview Decision = "pending_review"

	// DecisionRejected refuses the export.
	DecisionRejected Decision = "rejected"

	// DecisionQuarantined impounds the batch for investigation. Reserved for
	// out-of-band impoundment; the gate's checks never produce it directly.
	DecisionQuarantined Decision = "quarantined"
)

// Clearance is a level on the fixed classification lattice
// UNCLASSIFIED(0) < RESTRICTED(1) < SECRET(2) < TOP_SECRET(3).
type Clearance string

const (
	ClearanceUnclassified Clearance = "UNCLASSIFIED"
	ClearanceRestricted   Clearance = "RESTRICTED"
	ClearanceSecret       Clearance = "SECRET"
	ClearanceTopSecret    Clearance = "TOP_SECRET"
)

var clearanceRanks = map[Clearance]int{
	ClearanceUnclassified: 0,
	ClearanceRestricted:   1,
	ClearanceSecret:       2,
	ClearanceTopSecret:    3,
}

// Rank returns the lattice position. Unknown values rank as UNCLASSIFIED,
// the least-privileged interpretation.
func (c Clearance) Rank() int {
	return clearanceRanks[c]
}

// Sufficient reports whether clearance c may receive data classified at
// level data: buyer rank must be at least the data rank.
func (c Clearance) Sufficient(data Clearance) bool {
	return c.Rank() >= data.Rank()
}

// Request is a request to export a batch of accepted records to a buyer.
type Request struct {
	// BuyerID identifies the requesting buyer.
	BuyerID string `json:"buyer_id"`

	// BiomeID is the biome the batch was collected from.
	BiomeID string `json:"biome_id"`

	// RecordCount is the number of records in the batch.
	RecordCount int `json:"record_count"`

	// ContentHash is the hash of the batch contents, carried into the audit
	// trail for later cross-reference.
	ContentHash string `json:"content_hash"`

	// RequestedAt is when the export was requested.
	RequestedAt time.Time `json:"requested_at"`

	// Classification is the classification level of the batch data.
	Classification Clearance `json:"classification"`
}

// Validate checks the request for required fields. A malformed request is
// surfaced to the caller immediately and never evaluated.
func (r *Request) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}
	if r.BuyerID == "" {
		return fmt.Errorf("%w: buyer_id is required", ErrInvalidRequest)
	}
	if r.BiomeID == "" {
		return fmt.Errorf("%w: biome_id is required", ErrInvalidRequest)
	}
	if r.RecordCount <= 0 {
		return fmt.Errorf("%w: record_count must be positive", ErrInvalidRequest)
	}
	if r.ContentHash == "" {
		return fmt.Errorf("%w: content_hash is required", ErrInvalidRequest)
	}
	return nil
}

// Result is the outcome of one export evaluation. Every evaluation carries
// an audit id, rejections included.
type Result struct {
	// Decision is the terminal export decision.
	Decision Decision `json:"decision"`

	// Reasons lists the grounds for the decision in the order the checks
	// produced them. Empty for a clean approval.
	Reasons []string `json:"reasons"`

	// RequiresHumanReview is true when the decision is a review hold.
	RequiresHumanReview bool `json:"requires_human_review"`

	// AuditID references the audit entry created for this evaluation.
	AuditID string `json:"audit_id"`
}
