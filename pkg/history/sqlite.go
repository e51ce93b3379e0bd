package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:        "history.db",
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStorage implements Storage using a local SQLite database.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens (or creates) the history database and initializes
// the schema.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.BusyTimeout <= 0 {
		config.BusyTimeout = 5 * time.Second
	}

	logger := slog.Default().With("component", "history.sqlite")

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "open", Err: err}
	}

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("history storage initialized", "path", config.Path)
	return s, nil
}

// initialize sets pragmas and creates the schema.
func (s *SQLiteStorage) initialize() error {
	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return &StorageError{Backend: "sqlite", Operation: "set_busy_timeout", Err: err}
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return &StorageError{Backend: "sqlite", Operation: "create_schema", Err: err}
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return &StorageError{Backend: "sqlite", Operation: "insert_schema_version", Err: err}
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return &StorageError{Backend: "sqlite", Operation: "get_schema_version", Err: err}
	}
	if version != SchemaVersion {
		return &StorageError{
			Backend:   "sqlite",
			Operation: "schema_version_mismatch",
			Err:       fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version),
		}
	}

	return nil
}

// Append stores one entry.
func (s *SQLiteStorage) Append(ctx context.Context, entry *Entry) error {
	query := `
		INSERT INTO history (
			id, time, command, policy_name, policy_id, version,
			network, rule_id, detail, success, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.Time.UTC().Format(time.RFC3339Nano),
		entry.Command,
		entry.PolicyName,
		entry.PolicyID,
		entry.Version,
		entry.Network,
		entry.RuleID,
		entry.Detail,
		entry.Success,
		entry.Error,
	)
	if err != nil {
		return &StorageError{Backend: "sqlite", Operation: "append", Err: err}
	}
	return nil
}

// Find returns entries matching the query, newest first.
func (s *SQLiteStorage) Find(ctx context.Context, query Query) ([]*Entry, error) {
	var (
		conditions []string
		args       []any
	)

	if query.PolicyName != "" {
		conditions = append(conditions, "policy_name = ?")
		args = append(args, query.PolicyName)
	}
	if query.Command != "" {
		conditions = append(conditions, "command = ?")
		args = append(args, query.Command)
	}
	if !query.Since.IsZero() {
		conditions = append(conditions, "time >= ?")
		args = append(args, query.Since.UTC().Format(time.RFC3339Nano))
	}

	sqlQuery := "SELECT id, time, command, policy_name, policy_id, version, network, rule_id, detail, success, error FROM history"
	if len(conditions) > 0 {
		sqlQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	sqlQuery += " ORDER BY time DESC"
	if query.Limit > 0 {
		sqlQuery += " LIMIT ?"
		args = append(args, query.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "find", Err: err}
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var (
			entry   Entry
			rawTime string
		)
		if err := rows.Scan(
			&entry.ID,
			&rawTime,
			&entry.Command,
			&entry.PolicyName,
			&entry.PolicyID,
			&entry.Version,
			&entry.Network,
			&entry.RuleID,
			&entry.Detail,
			&entry.Success,
			&entry.Error,
		); err != nil {
			return nil, &StorageError{Backend: "sqlite", Operation: "scan", Err: err}
		}
		if t, err := time.Parse(time.RFC3339Nano, rawTime); err == nil {
			entry.Time = t
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "iterate", Err: err}
	}

	return entries, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
