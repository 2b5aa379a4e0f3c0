// Package leadlog keeps an operational audit trail of enrollment handoffs in
// SQLite. It records who asked for a human, for which course, and whether
// the advisor notice went out. The conversation itself is never persisted.
package leadlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

const schema = `
CREATE TABLE IF NOT EXISTS leads (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	sender_id   TEXT NOT NULL,
	message     TEXT NOT NULL,
	course_name TEXT NOT NULL DEFAULT '',
	notified    INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);
`

// Lead is one recorded handoff.
type Lead struct {
	ID         int64
	SenderID   string
	Message    string
	CourseName string
	Notified   bool
	CreatedAt  time.Time
}

// Log wraps the SQLite connection holding the lead audit trail.
type Log struct {
	conn *sql.DB
}

// Open creates (or opens) the lead log at dbPath and initializes the schema.
func Open(dbPath string) (*Log, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create lead log directory: %w", err)
			}
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open lead log: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("initialize lead log schema: %w", err)
	}

	return &Log{conn: conn}, nil
}

// Record inserts one handoff into the audit trail. Safe to call on a nil
// receiver; callers without a configured lead log skip persistence silently.
func (l *Log) Record(ctx context.Context, senderID, message, courseName string, notified bool) error {
	if l == nil {
		return nil
	}
	_, err := l.conn.ExecContext(ctx,
		`INSERT INTO leads (sender_id, message, course_name, notified, created_at) VALUES (?, ?, ?, ?, ?)`,
		senderID, message, courseName, notified, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record lead: %w", err)
	}
	return nil
}

// Recent returns up to limit leads, newest first.
func (l *Log) Recent(ctx context.Context, limit int) ([]Lead, error) {
	if l == nil {
		return nil, nil
	}
	rows, err := l.conn.QueryContext(ctx,
		`SELECT id, sender_id, message, course_name, notified, created_at
		 FROM leads ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var leads []Lead
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(&lead.ID, &lead.SenderID, &lead.Message, &lead.CourseName, &lead.Notified, &lead.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// Ping verifies the underlying connection, for readiness checks.
func (l *Log) Ping(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.conn.PingContext(ctx)
}

// Close closes the underlying connection. Nil-safe.
func (l *Log) Close() error {
	if l == nil || l.conn == nil {
		return nil
	}
	return l.conn.Close()
}
