package persistence

import "time"

// User represents an account stored in the directory.
type User struct {
	ID        string
	Username  string
	Secret    string
	Role      string
	CreatedAt time.Time
}

// Window is a stored half-open time range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Room represents a registered room and its announced schedule windows.
// Schedule windows are descriptive only and are never checked against
// reservations.
type Room struct {
	ID        string
	Number    string
	ManagedBy string
	Schedules []Window
	CreatedAt time.Time
}

// Reservation links a user to a room for a time window. RoomNumber is a
// snapshot so the record stays meaningful after the room leaves the registry.
type Reservation struct {
	ID         string
	UserID     string
	RoomID     string
	RoomNumber string
	Start      time.Time
	End        time.Time
	CreatedAt  time.Time
}

// AuditEntry is one line of the append-only audit log. Seq is assigned by the
// store and is strictly increasing in insertion order.
type AuditEntry struct {
	Seq     uint64
	At      time.Time
	Message string
}
