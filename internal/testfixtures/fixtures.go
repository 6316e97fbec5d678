package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/room-reservation/internal/persistence"
)

var (
	userCounter        uint64
	roomCounter        uint64
	reservationCounter uint64
)

var referenceTime = time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// UserOption configures a generated user record.
type UserOption func(*persistence.User)

// NewUser returns a deterministic user record with optional overrides.
func NewUser(opts ...UserOption) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)
	user := persistence.User{
		ID:        fmt.Sprintf("user-%03d", idx),
		Username:  fmt.Sprintf("user%03d", idx),
		Secret:    fmt.Sprintf("secret-%03d", idx),
		Role:      "user",
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// WithUsername overrides the generated username.
func WithUsername(username string) UserOption {
	return func(u *persistence.User) {
		u.Username = username
	}
}

// WithSecret overrides the generated secret.
func WithSecret(secret string) UserOption {
	return func(u *persistence.User) {
		u.Secret = secret
	}
}

// WithRole overrides the generated role tag.
func WithRole(role string) UserOption {
	return func(u *persistence.User) {
		u.Role = role
	}
}

// RoomOption configures a generated room record.
type RoomOption func(*persistence.Room)

// NewRoom returns a deterministic room record with optional overrides.
func NewRoom(opts ...RoomOption) persistence.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	room := persistence.Room{
		ID:        fmt.Sprintf("room-%03d", idx),
		Number:    fmt.Sprintf("%03d", 100+idx),
		ManagedBy: "admin-001",
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}

// WithRoomNumber overrides the generated room number.
func WithRoomNumber(number string) RoomOption {
	return func(r *persistence.Room) {
		r.Number = number
	}
}

// WithManagedBy overrides the admin attribution on the room.
func WithManagedBy(adminID string) RoomOption {
	return func(r *persistence.Room) {
		r.ManagedBy = adminID
	}
}

// WithSchedule appends an announced window to the room.
func WithSchedule(start, end time.Time) RoomOption {
	return func(r *persistence.Room) {
		r.Schedules = append(r.Schedules, persistence.Window{Start: start, End: end})
	}
}

// ReservationOption configures a generated reservation record.
type ReservationOption func(*persistence.Reservation)

// NewReservation returns a deterministic reservation record with optional
// overrides. Successive reservations occupy consecutive two hour windows so
// they never conflict by default.
func NewReservation(opts ...ReservationOption) persistence.Reservation {
	idx := atomic.AddUint64(&reservationCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * 2 * time.Hour)
	reservation := persistence.Reservation{
		ID:         fmt.Sprintf("reservation-%03d", idx),
		UserID:     "user-001",
		RoomID:     "room-001",
		RoomNumber: "101",
		Start:      start,
		End:        start.Add(2 * time.Hour),
		CreatedAt:  referenceTime,
	}
	for _, opt := range opts {
		opt(&reservation)
	}
	return reservation
}

// WithReservationUser overrides the owning user.
func WithReservationUser(userID string) ReservationOption {
	return func(r *persistence.Reservation) {
		r.UserID = userID
	}
}

// WithReservationRoom overrides the booked room.
func WithReservationRoom(roomID, number string) ReservationOption {
	return func(r *persistence.Reservation) {
		r.RoomID = roomID
		r.RoomNumber = number
	}
}

// WithReservationWindow overrides the booked window.
func WithReservationWindow(start, end time.Time) ReservationOption {
	return func(r *persistence.Reservation) {
		r.Start = start
		r.End = end
	}
}
