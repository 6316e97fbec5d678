package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a unique key (username, room number,
	// record id) is already taken.
	ErrDuplicate = errors.New("persistence: duplicate key")
	// ErrConflict is returned when a reservation overlaps an existing one on
	// the same room.
	ErrConflict = errors.New("persistence: reservation conflict")
	// ErrConstraintViolation is returned when a record fails a storage-level
	// check, such as an inverted time range.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
)
