// Package guestbook persists visitor messages, the site's only write path.
package guestbook

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mkeller/folio/internal/apperr"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS messages (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	message    TEXT NOT NULL,
	website    TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages(created_at DESC);
`

// Message is one guestbook entry.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	Website   string    `json:"website,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store wraps a sql.DB with guestbook operations.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("guestbook: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("guestbook: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("guestbook: apply schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Ping verifies the database is reachable; used by the readiness check.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Insert stores a new message.
func (s *Store) Insert(ctx context.Context, m Message) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO messages (id, name, message, website, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Message, m.Website, m.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("guestbook: insert: %w", err)
	}
	return nil
}

// List returns messages newest first along with the total count.
func (s *Store) List(ctx context.Context, limit, offset int) ([]Message, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("guestbook: count: %w", err)
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, name, message, website, created_at FROM messages
		 ORDER BY created_at DESC, id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("guestbook: list: %w", err)
	}
	defer rows.Close()

	out := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Message, &m.Website, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("guestbook: scan: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("guestbook: rows: %w", err)
	}
	return out, total, nil
}

// Delete removes a message by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("guestbook: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("guestbook: delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("guestbook: message %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}
