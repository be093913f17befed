package eventlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"nova/pkg/protocol"
)

// Event is a single row of the session event log.
type Event struct {
	ID        int64
	Type      string
	Op        string
	Detail    string
	Payload   string
	CreatedAt time.Time
}

// QueryOpts specifies filter criteria for querying events.
type QueryOpts struct {
	// Type filters to a specific event type (connect, disconnect, status,
	// failure).
	Type string

	// Op filters to a specific originating operation (e.g. "reminders.fetch").
	Op string

	// After filters events created at or after this time.
	After *time.Time

	// Before filters events created at or before this time.
	Before *time.Time

	// Limit restricts the number of results (0 = no limit).
	Limit int
}

// Reader provides read-only access to the session event log.
type Reader struct {
	db *sql.DB
}

// NewReader opens the event database in read-only mode with WAL so a live
// session's recorder is never blocked. Returns an error if the database
// does not exist.
func NewReader(dbPath string) (*Reader, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("event log not found: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_journal_mode=WAL", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("ping event log: %w", err)
	}

	return &Reader{db: db}, nil
}

// Close releases the database connection. Safe to call multiple times.
func (r *Reader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Query retrieves events matching opts, newest first.
// Returns an empty slice if nothing matches.
func (r *Reader) Query(ctx context.Context, opts QueryOpts) ([]Event, error) {
	query, args := buildQuery(opts)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close() //nolint:errcheck // best-effort close after full iteration

	var events []Event
	for rows.Next() {
		var e Event
		var op, detail, payload sql.NullString
		var createdAtStr string

		if err := rows.Scan(&e.ID, &e.Type, &op, &detail, &payload, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Op = op.String
		e.Detail = detail.String
		e.Payload = payload.String

		if createdAtStr != "" {
			parsed, err := time.Parse("2006-01-02 15:04:05", createdAtStr)
			if err != nil {
				parsed, err = time.Parse(time.RFC3339, createdAtStr)
				if err != nil {
					return nil, fmt.Errorf("parse created_at: %w", err)
				}
			}
			e.CreatedAt = parsed
		}

		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// buildQuery constructs the SQL query and arguments from opts.
func buildQuery(opts QueryOpts) (string, []any) {
	var conditions []string
	var args []any

	query := "SELECT id, type, op, detail, payload, created_at FROM events WHERE 1=1"

	if opts.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, opts.Type)
	}
	if opts.Op != "" {
		conditions = append(conditions, "op = ?")
		args = append(args, opts.Op)
	}
	if opts.After != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, opts.After.Format("2006-01-02 15:04:05"))
	}
	if opts.Before != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, opts.Before.Format("2006-01-02 15:04:05"))
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY id DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	return query, args
}

// DefaultDBPath returns the default path of the session event database.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, protocol.NovaDir, "events.db")
}
