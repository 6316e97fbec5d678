package application

import (
	"time"

	"github.com/example/room-reservation/internal/booking"
)

// Role identifies the permission tier of a user. It is fixed at sign-up.
type Role string

const (
	// RoleUser may reserve rooms and cancel their own reservations.
	RoleUser Role = "user"
	// RoleManager may additionally announce room schedules and delegate room
	// lifecycle changes to an admin.
	RoleManager Role = "manager"
	// RoleAdmin owns the room registry and the audit log view.
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the three known tiers.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanReserve reports whether the role may book rooms. Every tier can;
// managers and admins stay subject to the same reservation mechanics.
func (r Role) CanReserve() bool {
	return r.Valid()
}

// CanManageSchedules reports whether the role may announce room schedules.
// Only managers can: schedule management deliberately bypasses the admin,
// while room lifecycle does not.
func (r Role) CanManageSchedules() bool {
	return r == RoleManager
}

// CanAdministerRooms reports whether the role may mutate the room registry.
func (r Role) CanAdministerRooms() bool {
	return r == RoleAdmin
}

// CanViewLogs reports whether the role may read the audit log.
func (r Role) CanViewLogs() bool {
	return r == RoleAdmin
}

// User is the authenticated identity returned by the directory. The stored
// secret never leaves the persistence boundary.
type User struct {
	ID        string
	Username  string
	Role      Role
	CreatedAt time.Time
}

// Credentials pairs a user with the stored secret for login comparison.
type Credentials struct {
	User   User
	Secret string
}

// SignUpParams captures the fields required to register an account.
type SignUpParams struct {
	Username string
	Secret   string
	Role     Role
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Number string
}

// Room is a registry entry. Schedules are announced operating windows; they
// are descriptive only and never enforced against bookings.
type Room struct {
	ID        string
	Number    string
	ManagedBy string
	Schedules []booking.Window
	CreatedAt time.Time
}

// Reservation is an immutable booking of a room by a user for a half-open
// time window. It exists from a successful MakeReservation until the owning
// user cancels it.
type Reservation struct {
	ID         string
	UserID     string
	RoomID     string
	RoomNumber string
	Start      time.Time
	End        time.Time
	CreatedAt  time.Time
}

// Window returns the reservation's time range as a booking window.
func (r Reservation) Window() booking.Window {
	return booking.Window{Start: r.Start, End: r.End}
}

// AuditEntry is one line of the append-only audit log.
type AuditEntry struct {
	Seq     uint64
	At      time.Time
	Message string
}
