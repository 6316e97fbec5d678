package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/room-reservation/internal/persistence"
)

// CreateRoom inserts a new registry entry. Room numbers are unique.
func (s *Store) CreateRoom(ctx context.Context, room persistence.Room) error {
	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		const query = `
			INSERT INTO rooms (id, number, managed_by, created_at)
			VALUES (?, ?, ?, ?)
		`

		if _, err := tx.ExecContext(ctx, query,
			room.ID,
			room.Number,
			room.ManagedBy,
			formatTime(room.CreatedAt),
		); err != nil {
			return mapError(err)
		}

		for _, window := range room.Schedules {
			if err := insertSchedule(ctx, tx, room.ID, window); err != nil {
				return err
			}
		}

		return nil
	})
}

// GetRoom retrieves a room and its schedule windows by ID.
func (s *Store) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	const query = `
		SELECT id, number, managed_by, created_at
		FROM rooms
		WHERE id = ?
	`
	return s.loadRoom(ctx, s.db.QueryRowContext(ctx, query, id))
}

// GetRoomByNumber retrieves a room and its schedule windows by number.
func (s *Store) GetRoomByNumber(ctx context.Context, number string) (persistence.Room, error) {
	const query = `
		SELECT id, number, managed_by, created_at
		FROM rooms
		WHERE number = ?
	`
	return s.loadRoom(ctx, s.db.QueryRowContext(ctx, query, number))
}

// AddSchedule appends a schedule window to an existing room.
func (s *Store) AddSchedule(ctx context.Context, roomID string, window persistence.Window) error {
	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms WHERE id = ?`, roomID).Scan(&exists)
		if err != nil {
			return mapError(err)
		}
		if exists == 0 {
			return persistence.ErrNotFound
		}

		return insertSchedule(ctx, tx, roomID, window)
	})
}

// ListRooms returns all rooms with their schedules, ordered by number then ID.
func (s *Store) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	const query = `
		SELECT id, number, managed_by, created_at
		FROM rooms
		ORDER BY number ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range rooms {
		if rooms[i].Schedules, err = s.loadSchedules(ctx, rooms[i].ID); err != nil {
			return nil, err
		}
	}

	return rooms, nil
}

// DeleteRoom removes a room and its schedule windows. Reservations keep their
// room number snapshot and are not touched.
func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM room_schedules WHERE room_id = ?`, id); err != nil {
			return mapError(err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
		if err != nil {
			return mapError(err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return mapError(err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}

		return nil
	})
}

func insertSchedule(ctx context.Context, tx *sql.Tx, roomID string, window persistence.Window) error {
	const query = `
		INSERT INTO room_schedules (room_id, start_at, end_at)
		VALUES (?, ?, ?)
	`

	if _, err := tx.ExecContext(ctx, query,
		roomID,
		formatTime(window.Start),
		formatTime(window.End),
	); err != nil {
		return mapError(err)
	}

	return nil
}

func (s *Store) loadRoom(ctx context.Context, row *sql.Row) (persistence.Room, error) {
	room, err := scanRoom(row)
	if err != nil {
		return persistence.Room{}, err
	}

	if room.Schedules, err = s.loadSchedules(ctx, room.ID); err != nil {
		return persistence.Room{}, err
	}

	return room, nil
}

func (s *Store) loadSchedules(ctx context.Context, roomID string) ([]persistence.Window, error) {
	const query = `
		SELECT start_at, end_at
		FROM room_schedules
		WHERE room_id = ?
		ORDER BY rowid ASC
	`

	rows, err := s.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var windows []persistence.Window
	for rows.Next() {
		var startAt, endAt string
		if err := rows.Scan(&startAt, &endAt); err != nil {
			return nil, mapError(err)
		}

		var window persistence.Window
		if window.Start, err = parseTime(startAt); err != nil {
			return nil, err
		}
		if window.End, err = parseTime(endAt); err != nil {
			return nil, err
		}
		windows = append(windows, window)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return windows, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (persistence.Room, error) {
	var room persistence.Room
	var createdAt string

	err := row.Scan(&room.ID, &room.Number, &room.ManagedBy, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Room{}, persistence.ErrNotFound
		}
		return persistence.Room{}, mapError(err)
	}

	if room.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Room{}, err
	}

	return room, nil
}
