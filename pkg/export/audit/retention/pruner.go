package retention

import (
	"context"
	"log/slog"
	"time"

	"gaian-hq/gaian/pkg/export/audit"
)

// Config contains retention configuration for the audit archive.
type Config struct {
	// RetentionDays is how long archived entries are kept. Zero disables
	// age-based pruning entirely.
	// Default: 365
	RetentionDays int

	// PruneSchedule is a cron expression for scheduled pruning. Empty
	// disables the scheduler.
	// Default: "" (disabled)
	PruneSchedule string
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: 365,
		PruneSchedule: "",
	}
}

// Pruner removes archived audit entries past the retention window. It
// operates on the durable archive only; the in-process audit log is
// append-only and never pruned.
type Pruner struct {
	archive audit.Storage
	config  *Config
	logger  *slog.Logger
}

// NewPruner creates a pruner for the archive backend.
func NewPruner(archive audit.Storage, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Pruner{
		archive: archive,
		config:  config,
		logger:  slog.Default().With("component", "export.audit.retention"),
	}
}

// Prune executes one pruning cycle and returns the number of entries
// removed.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -p.config.RetentionDays)

	removed, err := p.archive.Prune(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		p.logger.Info("pruned archived audit entries",
			"removed", removed,
			"cutoff", cutoff,
		)
	}
	return removed, nil
}
