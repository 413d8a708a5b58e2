package gate

import (
	"context"
	"fmt"
	"log/slog"

	"gaian-hq/gaian/pkg/biome"
	"gaian-hq/gaian/pkg/export"
	"gaian-hq/gaian/pkg/export/audit"
)

// Audit status strings recorded per outcome.
const (
	statusApproved             = "approved"
	statusPendingReview        = "pending_review"
	statusRejectedBatchSize    = "rejected_batch_size"
	statusRejectedUnauthorized = "rejected_unauthorized"
	statusRejectedBiomeAccess  = "rejected_biome_access"
	statusRejectedClearance    = "rejected_clearance"
	statusRejectedFault        = "rejected_fault"
)

// Config contains configuration for the data gate.
type Config struct {
	// MaxBatchSize is the largest batch any buyer may export.
	// Default: 10000
	MaxBatchSize int

	// HumanReviewThreshold is the record count above which an export
	// requires human review. Biome rules may tighten it further, never
	// loosen it.
	// Default: 1000
	HumanReviewThreshold int
}

// DefaultConfig returns the default gate configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxBatchSize:         10000,
		HumanReviewThreshold: 1000,
	}
}

// DataGate is the final checkpoint before data leaves the system.
type DataGate struct {
	config *Config
	buyers *export.BuyerRegistry
	audits *audit.Log
	biomes *biome.Provider
	logger *slog.Logger
}

// New creates a data gate. The biome provider is optional; without it the
// review threshold comes from the gate configuration alone.
func New(config *Config, buyers *export.BuyerRegistry, audits *audit.Log, biomes *biome.Provider, logger *slog.Logger) (*DataGate, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if buyers == nil {
		return nil, fmt.Errorf("buyer registry is required")
	}
	if audits == nil {
		return nil, fmt.Errorf("audit log is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DataGate{
		config: config,
		buyers: buyers,
		audits: audits,
		biomes: biomes,
		logger: logger.With("component", "export.gate"),
	}, nil
}

// Evaluate runs the ordered export checks. It always returns a result with
// an audit id; the only error path is a malformed request, which is never
// evaluated or audited.
func (g *DataGate) Evaluate(ctx context.Context, req *export.Request) (result *export.Result, err error) {
	if verr := req.Validate(); verr != nil {
		return nil, verr
	}

	// Fail closed: a fault inside any check rejects the export. The fault
	// branch records the evaluation's single audit entry, since no check
	// branch was reached.
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("export check fault, failing closed",
				"buyer_id", req.BuyerID,
				"panic", r,
			)
			result = g.finish(req, export.DecisionRejected, statusRejectedFault,
				[]string{"Export evaluation fault"}, false)
			err = nil
		}
	}()

	if req.RecordCount > g.config.MaxBatchSize {
		return g.finish(req, export.DecisionRejected, statusRejectedBatchSize,
			[]string{fmt.Sprintf("Batch size %d exceeds maximum %d", req.RecordCount, g.config.MaxBatchSize)},
			false), nil
	}

	buyer := g.buyers.Get(req.BuyerID)
	if buyer == nil {
		return g.finish(req, export.DecisionRejected, statusRejectedUnauthorized,
			[]string{fmt.Sprintf("Buyer '%s' is not authorized", req.BuyerID)},
			false), nil
	}

	if !buyer.AllowsBiome(req.BiomeID) {
		return g.finish(req, export.DecisionRejected, statusRejectedBiomeAccess,
			[]string{fmt.Sprintf("Buyer not authorized for biome '%s'", req.BiomeID)},
			false), nil
	}

	if !buyer.ClassificationLevel.Sufficient(req.Classification) {
		return g.finish(req, export.DecisionRejected, statusRejectedClearance,
			[]string{fmt.Sprintf("Buyer clearance '%s' insufficient for '%s' data",
				buyer.ClassificationLevel, req.Classification)},
			false), nil
	}

	if float64(req.RecordCount) > g.reviewThreshold(req.BiomeID) || buyer.EthicsBoardApproval {
		return g.finish(req, export.DecisionPendingReview, statusPendingReview,
			[]string{"Human review required for this export"},
			true), nil
	}

	return g.finish(req, export.DecisionApproved, statusApproved, nil, false), nil
}

// reviewThreshold resolves the effective review threshold: the gate's
// configured value, tightened by the biome rules when they set a lower one.
func (g *DataGate) reviewThreshold(biomeID string) float64 {
	threshold := float64(g.config.HumanReviewThreshold)
	if g.biomes == nil {
		return threshold
	}
	rules := g.biomes.Registry().Get(biomeID)
	if composed := rules.Threshold(biome.ThresholdHumanReviewAbove, threshold); composed < threshold {
		threshold = composed
	}
	return threshold
}

// finish records the evaluation's single audit entry and assembles the
// result.
func (g *DataGate) finish(req *export.Request, decision export.Decision, status string, reasons []string, review bool) *export.Result {
	auditID := g.audits.Record(req.BuyerID, req.BiomeID, req.RecordCount, req.ContentHash, status)

	g.logger.Info("export decision",
		"decision", string(decision),
		"buyer_id", req.BuyerID,
		"biome_id", req.BiomeID,
		"record_count", req.RecordCount,
		"audit_id", auditID,
	)

	return &export.Result{
		Decision:            decision,
		Reasons:             reasons,
		RequiresHumanReview: review,
		AuditID:             auditID,
	}
}

// AuditLog exposes the gate's audit trail for retrieval.
func (g *DataGate) AuditLog() *audit.Log {
	return g.audits
}
