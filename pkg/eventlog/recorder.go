// Package eventlog persists Nova session events (connectivity edges, status
// transitions, swallowed request failures) to a local SQLite database, and
// provides read access for `nova logs` and the dashboard.
package eventlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"nova/pkg/protocol"
	"nova/pkg/session"
)

// Recorder appends session events to the SQLite event log.
// Safe for concurrent use: session hooks may fire from multiple goroutines.
type Recorder struct {
	mu sync.Mutex
	db *sql.DB
}

// NewRecorder opens (creating if needed) the event database at dbPath and
// ensures the schema exists.
func NewRecorder(dbPath string) (*Recorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create event log dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open event log %s: %w", dbPath, err)
	}
	if _, err := db.Exec(protocol.SchemaDDL); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("apply event log schema: %w", err)
	}

	return &Recorder{db: db}, nil
}

// Close releases the database connection. Safe to call multiple times.
func (r *Recorder) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Record appends one event row. Errors are returned, not logged: the
// session hooks wrapping Record decide whether a failing log is worth
// telling anyone about.
func (r *Recorder) Record(eventType, op, detail, payload string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(
		`INSERT INTO events (type, op, detail, payload) VALUES (?, ?, ?, ?)`,
		eventType, op, detail, payload,
	)
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// Hooks returns OnEvent/OnFailure functions wired to this recorder, for
// direct use in a session.Config. Recording failures are dropped: the log
// must never take the session down with it.
func (r *Recorder) Hooks() (func(session.Event), func(session.Failure)) {
	onEvent := func(ev session.Event) {
		_ = r.Record(ev.Type, ev.Op, ev.Detail, ev.Payload)
	}
	onFailure := func(f session.Failure) {
		_ = r.Record(session.EventFailure, f.Op, f.String(), "")
	}
	return onEvent, onFailure
}
