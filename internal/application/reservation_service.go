package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/room-reservation/internal/booking"
	"github.com/example/room-reservation/internal/persistence"
)

// ReservationStore captures the persistence operations needed by the
// reservation service. CreateReservation performs the overlap check and the
// insert as one atomic step; concurrent bookings for the same room cannot
// both succeed.
type ReservationStore interface {
	CreateReservation(ctx context.Context, reservation Reservation) (Reservation, error)
	GetReservation(ctx context.Context, id string) (Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
	ListReservationsForUser(ctx context.Context, userID string) ([]Reservation, error)
	ListReservationsForRoom(ctx context.Context, roomID string) ([]Reservation, error)
}

// RoomLookup resolves room numbers for the reservation path.
type RoomLookup interface {
	GetRoomByNumber(ctx context.Context, number string) (Room, error)
}

// ReservationService books and cancels rooms on behalf of signed-in users.
type ReservationService struct {
	reservations ReservationStore
	rooms        RoomLookup
	audit        AuditLog
	availability *availabilityCache
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewReservationService constructs a reservation service with the provided dependencies.
func NewReservationService(reservations ReservationStore, rooms RoomLookup, audit AuditLog, idGenerator func() string, now func() time.Time) *ReservationService {
	return NewReservationServiceWithLogger(reservations, rooms, audit, idGenerator, now, nil)
}

// NewReservationServiceWithLogger constructs a reservation service with a specified logger.
func NewReservationServiceWithLogger(reservations ReservationStore, rooms RoomLookup, audit AuditLog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ReservationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ReservationService{
		reservations: reservations,
		rooms:        rooms,
		audit:        audit,
		availability: newAvailabilityCache(0, 0, now),
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

// SetAvailabilityCache tunes the memoization of CheckAvailability answers.
// Call it at wiring time, before the service handles requests.
func (s *ReservationService) SetAvailabilityCache(ttl time.Duration, maxEntries int) {
	if s == nil {
		return
	}
	s.availability = newAvailabilityCache(ttl, maxEntries, s.now)
}

func (s *ReservationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReservationService", operation, attrs...)
}

// MakeReservation books a room for the given window. The window is rejected
// when malformed, the room must be registered, and the booking fails with
// ErrRoomUnavailable when any existing reservation for the room overlaps it.
// Touching windows do not overlap.
func (s *ReservationService) MakeReservation(ctx context.Context, user User, roomNumber string, start, end time.Time) (reservation Reservation, err error) {
	if s == nil {
		err = fmt.Errorf("ReservationService is nil")
		return
	}
	if s.reservations == nil || s.rooms == nil {
		err = fmt.Errorf("reservation store not configured")
		return
	}

	roomNumber = strings.TrimSpace(roomNumber)

	logger := s.loggerWith(ctx, "MakeReservation",
		"user", user.Username,
		"room_number", roomNumber,
		"start", start,
		"end", end,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to make reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("reservation_id", reservation.ID).InfoContext(ctx, "reservation made")
	}()

	if !user.Role.CanReserve() {
		err = ErrUnauthorized
		return
	}

	window, windowErr := booking.NewWindow(start, end)
	if windowErr != nil {
		err = ErrInvalidTimeRange
		return
	}

	room, lookupErr := s.rooms.GetRoomByNumber(ctx, roomNumber)
	if lookupErr != nil {
		if isNotFound(lookupErr) {
			err = ErrRoomNotRegistered
			return
		}
		err = lookupErr
		return
	}

	reservation = Reservation{
		ID:         s.idGenerator(),
		UserID:     user.ID,
		RoomID:     room.ID,
		RoomNumber: room.Number,
		Start:      window.Start,
		End:        window.End,
		CreatedAt:  s.now(),
	}

	persisted, createErr := s.reservations.CreateReservation(ctx, reservation)
	if createErr != nil {
		reservation = Reservation{}
		if errors.Is(createErr, persistence.ErrConflict) {
			err = ErrRoomUnavailable
			return
		}
		if errors.Is(createErr, persistence.ErrConstraintViolation) {
			err = ErrInvalidTimeRange
			return
		}
		err = createErr
		return
	}
	reservation = persisted

	s.availability.InvalidateRoom(room.ID)

	err = s.appendAudit(ctx, fmt.Sprintf("%s reserved room %s from %s to %s",
		user.Username, room.Number, formatWindowTime(start), formatWindowTime(end)))
	return
}

// CancelReservation removes one of the caller's reservations, freeing the
// window on the room side at the same time. A missing reservation and one
// owned by somebody else are reported identically.
func (s *ReservationService) CancelReservation(ctx context.Context, user User, reservationID string) (err error) {
	if s == nil {
		return fmt.Errorf("ReservationService is nil")
	}
	if s.reservations == nil {
		return fmt.Errorf("reservation store not configured")
	}

	logger := s.loggerWith(ctx, "CancelReservation",
		"user", user.Username,
		"reservation_id", reservationID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to cancel reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "reservation cancelled")
	}()

	reservation, lookupErr := s.reservations.GetReservation(ctx, reservationID)
	if lookupErr != nil {
		if isNotFound(lookupErr) || errors.Is(lookupErr, persistence.ErrNotFound) {
			return ErrReservationNotOwned
		}
		return lookupErr
	}

	if reservation.UserID != user.ID {
		return ErrReservationNotOwned
	}

	if deleteErr := s.reservations.DeleteReservation(ctx, reservation.ID); deleteErr != nil {
		if errors.Is(deleteErr, persistence.ErrNotFound) {
			return ErrReservationNotOwned
		}
		return deleteErr
	}

	s.availability.InvalidateRoom(reservation.RoomID)

	return s.appendAudit(ctx, fmt.Sprintf("%s cancelled reservation for room %s from %s to %s",
		user.Username, reservation.RoomNumber, formatWindowTime(reservation.Start), formatWindowTime(reservation.End)))
}

// CheckAvailability reports whether the room is free for the whole window.
// The answer reflects reservations only; announced schedules never block a
// booking. Results are memoized briefly per room and window.
func (s *ReservationService) CheckAvailability(ctx context.Context, roomNumber string, start, end time.Time) (bool, error) {
	if s == nil {
		return false, fmt.Errorf("ReservationService is nil")
	}
	if s.reservations == nil || s.rooms == nil {
		return false, fmt.Errorf("reservation store not configured")
	}

	window, windowErr := booking.NewWindow(start, end)
	if windowErr != nil {
		return false, ErrInvalidTimeRange
	}

	room, err := s.rooms.GetRoomByNumber(ctx, strings.TrimSpace(roomNumber))
	if err != nil {
		if isNotFound(err) {
			return false, ErrRoomNotRegistered
		}
		return false, err
	}

	key := buildAvailabilityCacheKey(room.ID, start, end)
	if available, ok := s.availability.Get(key); ok {
		return available, nil
	}

	existing, err := s.reservations.ListReservationsForRoom(ctx, room.ID)
	if err != nil {
		return false, err
	}

	windows := make([]booking.Window, 0, len(existing))
	for _, reservation := range existing {
		windows = append(windows, reservation.Window())
	}
	available := !booking.Conflicting(windows, window)

	s.availability.Store(key, available)
	return available, nil
}

// ListReservations returns the caller's reservations ordered by start time.
func (s *ReservationService) ListReservations(ctx context.Context, user User) ([]Reservation, error) {
	if s == nil {
		return nil, fmt.Errorf("ReservationService is nil")
	}
	if s.reservations == nil {
		return nil, nil
	}

	raw, err := s.reservations.ListReservationsForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	reservations := make([]Reservation, len(raw))
	copy(reservations, raw)

	sort.Slice(reservations, func(i, j int) bool {
		if reservations[i].Start.Equal(reservations[j].Start) {
			return reservations[i].ID < reservations[j].ID
		}
		return reservations[i].Start.Before(reservations[j].Start)
	})

	return reservations, nil
}

// ListRoomReservations returns every reservation held against a room,
// ordered by start time.
func (s *ReservationService) ListRoomReservations(ctx context.Context, roomNumber string) ([]Reservation, error) {
	if s == nil {
		return nil, fmt.Errorf("ReservationService is nil")
	}
	if s.reservations == nil || s.rooms == nil {
		return nil, nil
	}

	room, err := s.rooms.GetRoomByNumber(ctx, strings.TrimSpace(roomNumber))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRoomNotRegistered
		}
		return nil, err
	}

	return s.reservations.ListReservationsForRoom(ctx, room.ID)
}

func (s *ReservationService) appendAudit(ctx context.Context, message string) error {
	if s.audit == nil {
		return nil
	}
	if _, err := s.audit.Append(ctx, message); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func formatWindowTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
