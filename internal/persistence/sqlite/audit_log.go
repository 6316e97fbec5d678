package sqlite

import (
	"context"
	"time"

	"github.com/example/room-reservation/internal/persistence"
)

// AppendEntry records one audit line. The sequence number comes from the
// autoincrement column, so insertion order is preserved.
func (s *Store) AppendEntry(ctx context.Context, at time.Time, message string) (persistence.AuditEntry, error) {
	const query = `
		INSERT INTO audit_log (at, message)
		VALUES (?, ?)
	`

	result, err := s.db.ExecContext(ctx, query, formatTime(at), message)
	if err != nil {
		return persistence.AuditEntry{}, mapError(err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return persistence.AuditEntry{}, mapError(err)
	}

	return persistence.AuditEntry{
		Seq:     uint64(seq),
		At:      at.UTC().Truncate(time.Second),
		Message: message,
	}, nil
}

// ListEntries returns the full audit log in insertion order.
func (s *Store) ListEntries(ctx context.Context) ([]persistence.AuditEntry, error) {
	const query = `
		SELECT seq, at, message
		FROM audit_log
		ORDER BY seq ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var entries []persistence.AuditEntry
	for rows.Next() {
		var entry persistence.AuditEntry
		var at string

		if err := rows.Scan(&entry.Seq, &at, &entry.Message); err != nil {
			return nil, mapError(err)
		}
		if entry.At, err = parseTime(at); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return entries, nil
}
