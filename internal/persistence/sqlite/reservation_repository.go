package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/room-reservation/internal/persistence"
)

// CreateReservation checks the candidate window against the room's existing
// reservations and inserts it inside one transaction. The single pooled
// connection serialises transactions, so the check and the insert cannot be
// interleaved with another booking for the same room.
func (s *Store) CreateReservation(ctx context.Context, reservation persistence.Reservation) error {
	if !reservation.End.After(reservation.Start) {
		return persistence.ErrConstraintViolation
	}

	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		const overlapQuery = `
			SELECT COUNT(*)
			FROM reservations
			WHERE room_id = ? AND start_at < ? AND end_at > ?
		`

		var overlapping int
		err := tx.QueryRowContext(ctx, overlapQuery,
			reservation.RoomID,
			formatTime(reservation.End),
			formatTime(reservation.Start),
		).Scan(&overlapping)
		if err != nil {
			return mapError(err)
		}
		if overlapping > 0 {
			return persistence.ErrConflict
		}

		const insertQuery = `
			INSERT INTO reservations (id, user_id, room_id, room_number, start_at, end_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`

		if _, err := tx.ExecContext(ctx, insertQuery,
			reservation.ID,
			reservation.UserID,
			reservation.RoomID,
			reservation.RoomNumber,
			formatTime(reservation.Start),
			formatTime(reservation.End),
			formatTime(reservation.CreatedAt),
		); err != nil {
			return mapError(err)
		}

		return nil
	})
}

// GetReservation retrieves a reservation by ID.
func (s *Store) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	const query = `
		SELECT id, user_id, room_id, room_number, start_at, end_at, created_at
		FROM reservations
		WHERE id = ?
	`

	row := s.db.QueryRowContext(ctx, query, id)
	reservation, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Reservation{}, persistence.ErrNotFound
		}
		return persistence.Reservation{}, err
	}

	return reservation, nil
}

// DeleteReservation removes a reservation, clearing the user and room sides
// of the relationship in one statement.
func (s *Store) DeleteReservation(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
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
}

// ListReservationsForUser returns a user's reservations ordered by start then ID.
func (s *Store) ListReservationsForUser(ctx context.Context, userID string) ([]persistence.Reservation, error) {
	const query = `
		SELECT id, user_id, room_id, room_number, start_at, end_at, created_at
		FROM reservations
		WHERE user_id = ?
		ORDER BY start_at ASC, id ASC
	`
	return s.listReservations(ctx, query, userID)
}

// ListReservationsForRoom returns a room's reservations ordered by start then ID.
func (s *Store) ListReservationsForRoom(ctx context.Context, roomID string) ([]persistence.Reservation, error) {
	const query = `
		SELECT id, user_id, room_id, room_number, start_at, end_at, created_at
		FROM reservations
		WHERE room_id = ?
		ORDER BY start_at ASC, id ASC
	`
	return s.listReservations(ctx, query, roomID)
}

func (s *Store) listReservations(ctx context.Context, query string, arg any) ([]persistence.Reservation, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var reservations []persistence.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return reservations, nil
}

func scanReservation(row rowScanner) (persistence.Reservation, error) {
	var reservation persistence.Reservation
	var startAt, endAt, createdAt string

	err := row.Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.RoomID,
		&reservation.RoomNumber,
		&startAt,
		&endAt,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Reservation{}, err
		}
		return persistence.Reservation{}, mapError(err)
	}

	if reservation.Start, err = parseTime(startAt); err != nil {
		return persistence.Reservation{}, err
	}
	if reservation.End, err = parseTime(endAt); err != nil {
		return persistence.Reservation{}, err
	}
	if reservation.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Reservation{}, err
	}

	return reservation, nil
}
