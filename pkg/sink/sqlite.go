package sink

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteConfig contains configuration for the SQLite sink backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int
}

// DefaultSQLiteConfig returns the default SQLite sink configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/training.db",
		BusyTimeout:  5 * time.Second,
		MaxOpenConns: 10,
	}
}

const sinkSchema = `
CREATE TABLE IF NOT EXISTS training_records (
	id             TEXT PRIMARY KEY,
	player_id      TEXT NOT NULL,
	session_id     TEXT NOT NULL,
	biome_id       TEXT NOT NULL,
	kind           TEXT NOT NULL,
	solution_type  TEXT NOT NULL,
	novelty_tokens INTEGER NOT NULL,
	reasoning      TEXT,
	recorded_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_training_biome ON training_records(biome_id);
CREATE INDEX IF NOT EXISTS idx_training_player ON training_records(player_id);
`

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStorage creates a SQLite sink backend and initializes the
// schema. WAL mode is enabled through the DSN.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		config.Path, int(config.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening training database: %w", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)

	if _, err := db.Exec(sinkSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating training schema: %w", err)
	}

	logger := slog.Default().With("component", "sink.sqlite")
	logger.Info("training sink storage initialized", "path", config.Path)

	return &SQLiteStorage{db: db, logger: logger}, nil
}

// Store persists one training record.
func (s *SQLiteStorage) Store(ctx context.Context, record *TrainingRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO training_records (
			id, player_id, session_id, biome_id, kind, solution_type,
			novelty_tokens, reasoning, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.PlayerID,
		record.SessionID,
		record.BiomeID,
		record.Kind,
		record.SolutionType,
		record.NoveltyTokens,
		record.Reasoning,
		record.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting training record %s: %w", record.ID, err)
	}
	return nil
}

// Count returns the number of stored records, optionally filtered by biome.
func (s *SQLiteStorage) Count(ctx context.Context, biomeID string) (int64, error) {
	var n int64
	var err error
	if biomeID == "" {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM training_records").Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM training_records WHERE biome_id = ?", biomeID).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("counting training records: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
