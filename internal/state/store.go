// Package state persists compile history in SQLite.
// Every parse made through the CLI or the HTTP API can be recorded so
// `leapplot history` can show what was tried and why it was rejected.
package state

import (
	"context"
	"errors"
	"time"
)

// Source identifies where a compile came from.
type Source string

// Compile sources.
const (
	SourceCLI    Source = "cli"
	SourceServer Source = "server"
	SourceREPL   Source = "repl"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Record is one compile attempt.
type Record struct {
	ID        string
	Raw       string
	Canonical string // empty when rejected
	Valid     bool
	Reason    string // rejection reason, e.g. "unknown_identifier"
	Error     string
	Source    Source
	CreatedAt time.Time
}

// Store is the history persistence interface.
type Store interface {
	RecordCompile(ctx context.Context, rec *Record) error
	GetRecord(ctx context.Context, id string) (*Record, error)
	ListRecent(ctx context.Context, limit int) ([]*Record, error)
	Clear(ctx context.Context) (int64, error)
	Close() error
}

var _ Store = (*SQLiteStore)(nil)
