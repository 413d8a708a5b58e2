package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Config contains configuration for the audit log.
type Config struct {
	// AsyncBuffer is the size of the archive write channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout is the timeout for one archive write.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultConfig returns the default audit log configuration.
func DefaultConfig() *Config {
	return &Config{
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Log is the append-only audit trail. Record assigns each entry a unique,
// strictly increasing id; entries are held in arrival order for the
// process lifetime and mirrored to the archive backend in the background.
type Log struct {
	mu      sync.RWMutex
	entries []*Entry

	seq     atomic.Uint64
	config  *Config
	archive Storage
	archCh  chan *Entry
	done    chan struct{}
	wg      sync.WaitGroup
	logger  *slog.Logger
}

// NewLog creates an audit log. The archive may be nil, in which case
// entries live only in process memory.
func NewLog(archive Storage, config *Config, logger *slog.Logger) *Log {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	l := &Log{
		config:  config,
		archive: archive,
		done:    make(chan struct{}),
		logger:  logger.With("component", "export.audit"),
	}

	if archive != nil {
		l.archCh = make(chan *Entry, config.AsyncBuffer)
		l.wg.Add(1)
		go l.worker()
	}

	return l
}

// Record appends one entry and returns its audit id. The id embeds a
// timestamp for human legibility, but ordering and uniqueness come from
// the sequence component alone.
func (l *Log) Record(buyerID, biomeID string, recordCount int, contentHash, status string) string {
	now := time.Now().UTC()
	seq := l.seq.Add(1)

	entry := &Entry{
		AuditID:     fmt.Sprintf("AUDIT-%s-%06d", now.Format("20060102150405"), seq),
		Timestamp:   now,
		BuyerID:     buyerID,
		BiomeID:     biomeID,
		RecordCount: recordCount,
		ContentHash: contentHash,
		Status:      status,
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()

	if l.archCh != nil {
		select {
		case l.archCh <- entry:
		default:
			// The entry stays in the in-process log either way.
			l.logger.Error("audit archive channel full, entry not archived",
				"audit_id", entry.AuditID,
			)
		}
	}

	return entry.AuditID
}

// Entries returns a copy of all entries in id order.
func (l *Log) Entries() []*Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Entry, len(l.entries))
	for i, e := range l.entries {
		entryCopy := *e
		out[i] = &entryCopy
	}
	return out
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Archive returns the archive backend, nil when archiving is disabled.
func (l *Log) Archive() Storage {
	return l.archive
}

// Close drains pending archive writes and closes the archive backend.
func (l *Log) Close() error {
	if l.archCh == nil {
		return nil
	}
	close(l.done)
	l.wg.Wait()
	return l.archive.Close()
}

// worker drains the archive channel in the background.
func (l *Log) worker() {
	defer l.wg.Done()

	for {
		select {
		case entry := <-l.archCh:
			l.archiveEntry(entry)
		case <-l.done:
			for {
				select {
				case entry := <-l.archCh:
					l.archiveEntry(entry)
				default:
					return
				}
			}
		}
	}
}

func (l *Log) archiveEntry(entry *Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), l.config.WriteTimeout)
	defer cancel()

	if err := l.archive.Append(ctx, entry); err != nil {
		l.logger.Error("failed to archive audit entry",
			"audit_id", entry.AuditID,
			"error", err,
		)
	}
}
