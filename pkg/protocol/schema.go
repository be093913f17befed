package protocol

// SchemaDDL defines the SQLite schema for the Nova client event log.
// Every session event (status transition, connect/disconnect edge, swallowed
// request failure) lands in the single events table.
// Execute against a SQLite database with: db.Exec(SchemaDDL)
const SchemaDDL = `
-- Session event log: connectivity edges, status transitions, failures
CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY,
    type TEXT NOT NULL,
    op TEXT,
    detail TEXT,
    payload TEXT,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_events_type ON events(type, id);
`
