package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// DefaultListLimit is used by ListRecent when limit is not positive.
const DefaultListLimit = 20

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite state store instance.
// If logger is nil, a discard logger is used.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// Open opens a connection to the SQLite database, creating parent
// directories as needed. Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One connection keeps :memory: databases coherent and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	s.db = db
	s.path = path
	s.logger.Debug("opened history store", slog.String("path", path))
	return nil
}

// OpenAndMigrate opens the store at path and applies migrations.
func OpenAndMigrate(path string, logger *slog.Logger) (*SQLiteStore, error) {
	store := NewSQLiteStore(logger)
	if err := store.Open(path); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database path passed to Open.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// RecordCompile stores rec, filling in ID, Source and CreatedAt when empty.
func (s *SQLiteStore) RecordCompile(ctx context.Context, rec *Record) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	if rec.ID == "" {
		rec.ID = generateID()
	}
	if rec.Source == "" {
		rec.Source = SourceCLI
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO compiles (id, raw, canonical, valid, reason, error, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Raw, nullString(rec.Canonical), rec.Valid,
		nullString(rec.Reason), nullString(rec.Error), string(rec.Source), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record compile: %w", err)
	}

	s.logger.Debug("recorded compile",
		slog.String("id", rec.ID),
		slog.Bool("valid", rec.Valid),
		slog.String("source", string(rec.Source)))
	return nil
}

// GetRecord retrieves a record by ID.
func (s *SQLiteStore) GetRecord(ctx context.Context, id string) (*Record, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, raw, canonical, valid, reason, error, source, created_at
		 FROM compiles WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

// ListRecent returns up to limit records, newest first.
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]*Record, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, raw, canonical, valid, reason, error, source, created_at
		 FROM compiles ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes every record and returns how many were removed.
func (s *SQLiteStore) Clear(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM compiles`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*Record, error) {
	rec := &Record{}
	var canonical, reason, errMsg sql.NullString
	var source string

	if err := sc.Scan(&rec.ID, &rec.Raw, &canonical, &rec.Valid, &reason, &errMsg, &source, &rec.CreatedAt); err != nil {
		return nil, err
	}

	rec.Canonical = canonical.String
	rec.Reason = reason.String
	rec.Error = errMsg.String
	rec.Source = Source(source)
	return rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
