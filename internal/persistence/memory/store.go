// Package memory provides the mutex-guarded map implementation of the
// persistence repositories. It is the default backend: the reservation model
// is in-memory and all state dies with the process.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/room-reservation/internal/persistence"
)

// Store implements every persistence repository over plain maps.
type Store struct {
	mu           sync.RWMutex
	users        map[string]persistence.User
	rooms        map[string]persistence.Room
	reservations map[string]persistence.Reservation
	audit        []persistence.AuditEntry
	auditSeq     uint64
}

// Open returns an empty store.
func Open() *Store {
	return &Store{
		users:        make(map[string]persistence.User),
		rooms:        make(map[string]persistence.Room),
		reservations: make(map[string]persistence.Reservation),
	}
}

// Close releases resources held by the store. No-op for the map backend.
func (s *Store) Close() error {
	return nil
}

// --- UserRepository implementation ---

// CreateUser stores a new user. Usernames are unique case-insensitively.
func (s *Store) CreateUser(ctx context.Context, user persistence.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return persistence.ErrDuplicate
	}
	folded := foldASCII(user.Username)
	for _, existing := range s.users {
		if foldASCII(existing.Username) == folded {
			return persistence.ErrDuplicate
		}
	}

	s.users[user.ID] = user
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (persistence.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return persistence.User{}, persistence.ErrNotFound
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (persistence.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	folded := foldASCII(username)
	for _, user := range s.users {
		if foldASCII(user.Username) == folded {
			return user, nil
		}
	}
	return persistence.User{}, persistence.ErrNotFound
}

// foldASCII lowercases ASCII letters only, matching the NOCASE collation of
// the sqlite backend so both stores agree on username uniqueness.
func foldASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

// ListUsers returns all users ordered by CreatedAt then ID.
func (s *Store) ListUsers(ctx context.Context) ([]persistence.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]persistence.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	return users, nil
}

// --- RoomRepository implementation ---

// CreateRoom stores a new room. Room numbers are unique.
func (s *Store) CreateRoom(ctx context.Context, room persistence.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[room.ID]; ok {
		return persistence.ErrDuplicate
	}
	for _, existing := range s.rooms {
		if existing.Number == room.Number {
			return persistence.ErrDuplicate
		}
	}

	s.rooms[room.ID] = cloneRoom(room)
	return nil
}

// GetRoom retrieves a room by ID.
func (s *Store) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return persistence.Room{}, persistence.ErrNotFound
	}
	return cloneRoom(room), nil
}

// GetRoomByNumber retrieves a room by its number.
func (s *Store) GetRoomByNumber(ctx context.Context, number string) (persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, room := range s.rooms {
		if room.Number == number {
			return cloneRoom(room), nil
		}
	}
	return persistence.Room{}, persistence.ErrNotFound
}

// AddSchedule appends a schedule window to a room. Windows are informational
// and are accepted unconditionally once the range is well formed.
func (s *Store) AddSchedule(ctx context.Context, roomID string, window persistence.Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return persistence.ErrNotFound
	}
	if !window.End.After(window.Start) {
		return persistence.ErrConstraintViolation
	}

	room.Schedules = append(room.Schedules, window)
	s.rooms[roomID] = room
	return nil
}

// ListRooms returns all rooms ordered by number then ID.
func (s *Store) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]persistence.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, cloneRoom(room))
	}

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].Number == rooms[j].Number {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].Number < rooms[j].Number
	})

	return rooms, nil
}

// DeleteRoom removes a room from the registry. Reservations referencing the
// room are left in place; they carry their own room number snapshot.
func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[id]; !ok {
		return persistence.ErrNotFound
	}

	delete(s.rooms, id)
	return nil
}

// --- ReservationRepository implementation ---

// CreateReservation checks the candidate window against every reservation
// held by the target room and inserts it while still holding the write lock.
// The check and the insert form one critical section, so two overlapping
// requests racing for the same room cannot both be accepted.
func (s *Store) CreateReservation(ctx context.Context, reservation persistence.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[reservation.ID]; ok {
		return persistence.ErrDuplicate
	}
	if !reservation.End.After(reservation.Start) {
		return persistence.ErrConstraintViolation
	}

	for _, existing := range s.reservations {
		if existing.RoomID != reservation.RoomID {
			continue
		}
		if reservation.Start.Before(existing.End) && reservation.End.After(existing.Start) {
			return persistence.ErrConflict
		}
	}

	s.reservations[reservation.ID] = reservation
	return nil
}

// GetReservation retrieves a reservation by ID.
func (s *Store) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reservation, ok := s.reservations[id]
	if !ok {
		return persistence.Reservation{}, persistence.ErrNotFound
	}
	return reservation, nil
}

// DeleteReservation removes a reservation. The single delete clears both the
// user side and the room side of the relationship atomically.
func (s *Store) DeleteReservation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[id]; !ok {
		return persistence.ErrNotFound
	}

	delete(s.reservations, id)
	return nil
}

// ListReservationsForUser returns a user's reservations ordered by start then ID.
func (s *Store) ListReservationsForUser(ctx context.Context, userID string) ([]persistence.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectReservationsLocked(func(r persistence.Reservation) bool {
		return r.UserID == userID
	}), nil
}

// ListReservationsForRoom returns a room's reservations ordered by start then ID.
func (s *Store) ListReservationsForRoom(ctx context.Context, roomID string) ([]persistence.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectReservationsLocked(func(r persistence.Reservation) bool {
		return r.RoomID == roomID
	}), nil
}

func (s *Store) collectReservationsLocked(keep func(persistence.Reservation) bool) []persistence.Reservation {
	reservations := make([]persistence.Reservation, 0)
	for _, reservation := range s.reservations {
		if keep(reservation) {
			reservations = append(reservations, reservation)
		}
	}

	sort.Slice(reservations, func(i, j int) bool {
		if reservations[i].Start.Equal(reservations[j].Start) {
			return reservations[i].ID < reservations[j].ID
		}
		return reservations[i].Start.Before(reservations[j].Start)
	})

	return reservations
}

// --- AuditLog implementation ---

// AppendEntry records one audit line, assigning the next sequence number
// under the write lock.
func (s *Store) AppendEntry(ctx context.Context, at time.Time, message string) (persistence.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.auditSeq++
	entry := persistence.AuditEntry{
		Seq:     s.auditSeq,
		At:      at,
		Message: message,
	}
	s.audit = append(s.audit, entry)
	return entry, nil
}

// ListEntries returns the full audit log in insertion order.
func (s *Store) ListEntries(ctx context.Context) ([]persistence.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]persistence.AuditEntry, len(s.audit))
	copy(entries, s.audit)
	return entries, nil
}

func cloneRoom(room persistence.Room) persistence.Room {
	schedules := make([]persistence.Window, len(room.Schedules))
	copy(schedules, room.Schedules)

	return persistence.Room{
		ID:        room.ID,
		Number:    room.Number,
		ManagedBy: room.ManagedBy,
		Schedules: schedules,
		CreatedAt: room.CreatedAt,
	}
}
