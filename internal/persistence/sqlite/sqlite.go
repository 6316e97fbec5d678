// Package sqlite implements the persistence repositories on top of
// modernc.org/sqlite. The default DSN is an in-memory database, so the
// backend offers SQL semantics without surviving a restart.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/room-reservation/internal/persistence"

	_ "modernc.org/sqlite"
)

// DefaultDSN opens a private in-memory database.
const DefaultDSN = "file::memory:"

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	username   TEXT NOT NULL COLLATE NOCASE UNIQUE,
	secret     TEXT NOT NULL,
	role       TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rooms (
	id         TEXT PRIMARY KEY,
	number     TEXT NOT NULL UNIQUE,
	managed_by TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS room_schedules (
	room_id  TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
	start_at TEXT NOT NULL,
	end_at   TEXT NOT NULL,
	CHECK (end_at > start_at)
);

CREATE TABLE IF NOT EXISTS reservations (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	room_id     TEXT NOT NULL,
	room_number TEXT NOT NULL,
	start_at    TEXT NOT NULL,
	end_at      TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	CHECK (end_at > start_at)
);

CREATE INDEX IF NOT EXISTS idx_reservations_room ON reservations(room_id, start_at);
CREATE INDEX IF NOT EXISTS idx_reservations_user ON reservations(user_id, start_at);

CREATE TABLE IF NOT EXISTS audit_log (
	seq     INTEGER PRIMARY KEY AUTOINCREMENT,
	at      TEXT NOT NULL,
	message TEXT NOT NULL
);
`

// Store implements every persistence repository over a SQLite database.
type Store struct {
	db *sql.DB
}

// Open connects to the database identified by dsn. An empty dsn selects the
// in-memory default.
func Open(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = DefaultDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// An in-memory SQLite database exists per connection; a second pooled
	// connection would see an empty schema. Keep the pool at one.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Migrate applies the bootstrap schema. The statement set is idempotent; the
// in-memory database starts empty on every process start, so no versioned
// migration history is needed.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// withTransaction runs fn inside a transaction, rolling back on error.
func (s *Store) withTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// mapError translates driver errors into persistence sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return persistence.ErrDuplicate
	case strings.Contains(msg, "CHECK constraint failed"):
		return persistence.ErrConstraintViolation
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return persistence.ErrConstraintViolation
	}
	return err
}

// Timestamps are stored as RFC3339 UTC strings with zero-padded nanoseconds.
// The fixed-width encoding keeps lexicographic order equal to chronological
// order, which the overlap query relies on; RFC3339Nano is unsuitable because
// it trims trailing zeros and breaks the fixed width.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", value, err)
	}
	return t, nil
}
