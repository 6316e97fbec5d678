package persistence

import (
	"context"
	"time"
)

// UserRepository exposes directory operations for user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

// RoomRepository exposes registry operations for rooms.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	GetRoomByNumber(ctx context.Context, number string) (Room, error)
	AddSchedule(ctx context.Context, roomID string, window Window) error
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// ReservationRepository stores reservations. CreateReservation must perform
// the overlap check and the insert inside a single critical section so that
// two concurrent requests for overlapping windows on the same room cannot
// both succeed.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) error
	GetReservation(ctx context.Context, id string) (Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
	ListReservationsForUser(ctx context.Context, userID string) ([]Reservation, error)
	ListReservationsForRoom(ctx context.Context, roomID string) ([]Reservation, error)
}

// AuditLog stores the process-wide append-only action log.
type AuditLog interface {
	AppendEntry(ctx context.Context, at time.Time, message string) (AuditEntry, error)
	ListEntries(ctx context.Context) ([]AuditEntry, error)
}
