package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/room-reservation/internal/booking"
	"github.com/example/room-reservation/internal/persistence"
)

var testReferenceTime = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func fixedClock() func() time.Time {
	return func() time.Time { return testReferenceTime }
}

func sequenceIDs(prefix string) func() string {
	counter := 0
	return func() string {
		counter++
		return fmt.Sprintf("%s-%d", prefix, counter)
	}
}

// stubDirectory keeps credentials keyed by lowercase username, mirroring the
// case-insensitive uniqueness the stores enforce.
type stubDirectory struct {
	creds map[string]Credentials
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{creds: make(map[string]Credentials)}
}

func (d *stubDirectory) CreateUser(_ context.Context, creds Credentials) error {
	key := strings.ToLower(creds.User.Username)
	if _, ok := d.creds[key]; ok {
		return persistence.ErrDuplicate
	}
	d.creds[key] = creds
	return nil
}

func (d *stubDirectory) GetCredentialsByUsername(_ context.Context, username string) (Credentials, error) {
	creds, ok := d.creds[strings.ToLower(username)]
	if !ok {
		return Credentials{}, persistence.ErrNotFound
	}
	return creds, nil
}

type stubRegistry struct {
	rooms map[string]Room
}

func newStubRegistry() *stubRegistry {
	return &stubRegistry{rooms: make(map[string]Room)}
}

func (r *stubRegistry) CreateRoom(_ context.Context, room Room) (Room, error) {
	for _, existing := range r.rooms {
		if existing.Number == room.Number {
			return Room{}, persistence.ErrDuplicate
		}
	}
	r.rooms[room.ID] = room
	return room, nil
}

func (r *stubRegistry) GetRoomByNumber(_ context.Context, number string) (Room, error) {
	for _, room := range r.rooms {
		if room.Number == number {
			return room, nil
		}
	}
	return Room{}, persistence.ErrNotFound
}

func (r *stubRegistry) AddSchedule(_ context.Context, roomID string, window booking.Window) error {
	room, ok := r.rooms[roomID]
	if !ok {
		return persistence.ErrNotFound
	}
	room.Schedules = append(room.Schedules, window)
	r.rooms[roomID] = room
	return nil
}

func (r *stubRegistry) ListRooms(_ context.Context) ([]Room, error) {
	rooms := make([]Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (r *stubRegistry) DeleteRoom(_ context.Context, id string) error {
	if _, ok := r.rooms[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.rooms, id)
	return nil
}

type stubReservations struct {
	reservations map[string]Reservation
	listCalls    int
}

func newStubReservations() *stubReservations {
	return &stubReservations{reservations: make(map[string]Reservation)}
}

func (r *stubReservations) CreateReservation(_ context.Context, reservation Reservation) (Reservation, error) {
	candidate := reservation.Window()
	for _, existing := range r.reservations {
		if existing.RoomID != reservation.RoomID {
			continue
		}
		if booking.Overlaps(existing.Window(), candidate) {
			return Reservation{}, persistence.ErrConflict
		}
	}
	r.reservations[reservation.ID] = reservation
	return reservation, nil
}

func (r *stubReservations) GetReservation(_ context.Context, id string) (Reservation, error) {
	reservation, ok := r.reservations[id]
	if !ok {
		return Reservation{}, persistence.ErrNotFound
	}
	return reservation, nil
}

func (r *stubReservations) DeleteReservation(_ context.Context, id string) error {
	if _, ok := r.reservations[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.reservations, id)
	return nil
}

func (r *stubReservations) ListReservationsForUser(_ context.Context, userID string) ([]Reservation, error) {
	var out []Reservation
	for _, reservation := range r.reservations {
		if reservation.UserID == userID {
			out = append(out, reservation)
		}
	}
	return out, nil
}

func (r *stubReservations) ListReservationsForRoom(_ context.Context, roomID string) ([]Reservation, error) {
	r.listCalls++
	var out []Reservation
	for _, reservation := range r.reservations {
		if reservation.RoomID == roomID {
			out = append(out, reservation)
		}
	}
	return out, nil
}

type stubAudit struct {
	entries   []AuditEntry
	appendErr error
}

func (a *stubAudit) Append(_ context.Context, message string) (AuditEntry, error) {
	if a.appendErr != nil {
		return AuditEntry{}, a.appendErr
	}
	entry := AuditEntry{
		Seq:     uint64(len(a.entries) + 1),
		At:      testReferenceTime,
		Message: message,
	}
	a.entries = append(a.entries, entry)
	return entry, nil
}

func (a *stubAudit) Entries(_ context.Context) ([]AuditEntry, error) {
	out := make([]AuditEntry, len(a.entries))
	copy(out, a.entries)
	return out, nil
}

func (a *stubAudit) lastMessage() string {
	if len(a.entries) == 0 {
		return ""
	}
	return a.entries[len(a.entries)-1].Message
}
