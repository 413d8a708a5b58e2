package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteConfig contains configuration for the SQLite archive backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite archive configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/audit.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

const auditSchema = `
CREATE TABLE IF NOT EXISTS audit_entries (
	audit_id     TEXT PRIMARY KEY,
	timestamp    DATETIME NOT NULL,
	buyer_id     TEXT NOT NULL,
	biome_id     TEXT NOT NULL,
	record_count INTEGER NOT NULL,
	content_hash TEXT NOT NULL,
	status       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_entries(timestamp);
CREATE INDEX IF NOT EXISTS idx_audit_buyer ON audit_entries(buyer_id);
CREATE INDEX IF NOT EXISTS idx_audit_status ON audit_entries(status);
`

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage creates a SQLite archive backend and initializes the
// schema.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "export.audit.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{db: db, config: config, logger: logger}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("audit archive initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return fmt.Errorf("enabling WAL mode: %w", err)
		}
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := s.db.Exec(auditSchema); err != nil {
		return fmt.Errorf("creating audit schema: %w", err)
	}
	return nil
}

// Append persists one entry.
func (s *SQLiteStorage) Append(ctx context.Context, entry *Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_entries (
			audit_id, timestamp, buyer_id, biome_id, record_count, content_hash, status
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.AuditID,
		entry.Timestamp,
		entry.BuyerID,
		entry.BiomeID,
		entry.RecordCount,
		entry.ContentHash,
		entry.Status,
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry %s: %w", entry.AuditID, err)
	}
	return nil
}

// List retrieves archived entries matching the query, ordered by audit id.
func (s *SQLiteStorage) List(ctx context.Context, query *Query) ([]*Entry, error) {
	where, args := buildWhere(query)

	q := "SELECT audit_id, timestamp, buyer_id, biome_id, record_count, content_hash, status FROM audit_entries" +
		where + " ORDER BY audit_id ASC"
	if query != nil && query.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", query.Limit)
		if query.Offset > 0 {
			q += fmt.Sprintf(" OFFSET %d", query.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.AuditID, &e.Timestamp, &e.BuyerID, &e.BiomeID,
			&e.RecordCount, &e.ContentHash, &e.Status); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Count returns the number of archived entries matching the query.
func (s *SQLiteStorage) Count(ctx context.Context, query *Query) (int64, error) {
	where, args := buildWhere(query)

	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_entries"+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting audit entries: %w", err)
	}
	return n, nil
}

// Prune removes archived entries older than the cutoff.
func (s *SQLiteStorage) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM audit_entries WHERE timestamp < ?", before)
	if err != nil {
		return 0, fmt.Errorf("pruning audit entries: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func buildWhere(query *Query) (string, []any) {
	if query == nil {
		return "", nil
	}

	var conds []string
	var args []any
	if query.BuyerID != "" {
		conds = append(conds, "buyer_id = ?")
		args = append(args, query.BuyerID)
	}
	if query.BiomeID != "" {
		conds = append(conds, "biome_id = ?")
		args = append(args, query.BiomeID)
	}
	if query.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, query.Status)
	}
	if query.StartTime != nil {
		conds = append(conds, "timestamp >= ?")
		args = append(args, *query.StartTime)
	}
	if query.EndTime != nil {
		conds = append(conds, "timestamp <= ?")
		args = append(args, *query.EndTime)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
