package sink

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"gaian-hq/gaian/pkg/action"
)

// Config contains configuration for the training sink.
type Config struct {
	// Enabled enables record capture.
	// Default: true
	Enabled bool

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout is the timeout for one backend write.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultConfig returns the default sink configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Sink captures accepted actions asynchronously.
type Sink struct {
	storage   Storage
	config    *Config
	recordCh  chan *TrainingRecord
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	logger    *slog.Logger
}

// New creates a training sink writing to the given backend and starts its
// background worker.
func New(storage Storage, config *Config, logger *slog.Logger) *Sink {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Sink{
		storage:  storage,
		config:   config,
		recordCh: make(chan *TrainingRecord, config.AsyncBuffer),
		done:     make(chan struct{}),
		logger:   logger.With("component", "sink"),
	}

	s.wg.Add(1)
	go s.worker()

	s.logger.Info("training sink initialized",
		"enabled", config.Enabled,
		"async_buffer", config.AsyncBuffer,
	)

	return s
}

// Capture builds a training record from an accepted action and enqueues it.
// It never blocks; when the buffer is full the record is dropped and
// logged.
func (s *Sink) Capture(a *action.TelemetryAction, biomeID string, noveltyTokens int) {
	if !s.config.Enabled {
		return
	}

	record := &TrainingRecord{
		ID:            uuid.New().String(),
		PlayerID:      a.PlayerID,
		SessionID:     a.SessionID,
		BiomeID:       biomeID,
		Kind:          string(a.Kind),
		SolutionType:  a.SolutionType,
		NoveltyTokens: noveltyTokens,
		Reasoning:     a.Reasoning,
		RecordedAt:    time.Now().UTC(),
	}

	select {
	case s.recordCh <- record:
	default:
		s.logger.Error("sink channel full, dropping training record",
			"record_id", record.ID,
			"player_id", record.PlayerID,
		)
	}
}

// Close drains pending writes and closes the backend.
func (s *Sink) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
	return s.storage.Close()
}

// worker drains the record channel in the background.
func (s *Sink) worker() {
	defer s.wg.Done()

	for {
		select {
		case record := <-s.recordCh:
			s.writeRecord(record)
		case <-s.done:
			for {
				select {
				case record := <-s.recordCh:
					s.writeRecord(record)
				default:
					return
				}
			}
		}
	}
}

func (s *Sink) writeRecord(record *TrainingRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.WriteTimeout)
	defer cancel()

	if err := s.storage.Store(ctx, record); err != nil {
		s.logger.Error("failed to store training record",
			"record_id", record.ID,
			"player_id", record.PlayerID,
			"error", err,
		)
		return
	}

	s.logger.Debug("training record stored",
		"record_id", record.ID,
		"biome_id", record.BiomeID,
		"novelty_tokens", record.NoveltyTokens,
	)
}
