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

// RoomRegistry captures the persistence operations needed by the registry
// service.
type RoomRegistry interface {
	CreateRoom(ctx context.Context, room Room) (Room, error)
	GetRoomByNumber(ctx context.Context, number string) (Room, error)
	AddSchedule(ctx context.Context, roomID string, window booking.Window) error
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// RegistryService owns the room registry and the admin view of the audit
// log. Room lifecycle is admin-gated; managers reach it only by delegation.
type RegistryService struct {
	rooms       RoomRegistry
	audit       AuditLog
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRegistryService constructs a registry service with the provided dependencies.
func NewRegistryService(rooms RoomRegistry, audit AuditLog, idGenerator func() string, now func() time.Time) *RegistryService {
	return NewRegistryServiceWithLogger(rooms, audit, idGenerator, now, nil)
}

// NewRegistryServiceWithLogger constructs a registry service with a specified logger.
func NewRegistryServiceWithLogger(rooms RoomRegistry, audit AuditLog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RegistryService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RegistryService{
		rooms:       rooms,
		audit:       audit,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *RegistryService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RegistryService", operation, attrs...)
}

// AddRoom registers a new room under the acting admin and records the action.
func (s *RegistryService) AddRoom(ctx context.Context, admin User, input RoomInput) (room Room, err error) {
	if s == nil {
		err = fmt.Errorf("RegistryService is nil")
		return
	}
	if s.rooms == nil {
		err = fmt.Errorf("room registry not configured")
		return
	}

	number := strings.TrimSpace(input.Number)

	logger := s.loggerWith(ctx, "AddRoom",
		"admin", admin.Username,
		"room_number", number,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_id", room.ID).InfoContext(ctx, "room added")
	}()

	if !admin.Role.CanAdministerRooms() {
		err = ErrUnauthorized
		return
	}

	if number == "" {
		vErr := &ValidationError{}
		vErr.add("number", "room number is required")
		err = vErr
		return
	}

	room = Room{
		ID:        s.idGenerator(),
		Number:    number,
		ManagedBy: admin.ID,
		CreatedAt: s.now(),
	}

	persisted, createErr := s.rooms.CreateRoom(ctx, room)
	if createErr != nil {
		room = Room{}
		if errors.Is(createErr, persistence.ErrDuplicate) {
			err = ErrRoomExists
			return
		}
		err = createErr
		return
	}
	room = persisted

	err = s.appendAudit(ctx, fmt.Sprintf("room %s added by admin %s", room.Number, admin.Username))
	return
}

// RemoveRoom deletes a room from the registry. An unknown number reports
// ErrRoomNotRegistered and leaves the audit log untouched.
func (s *RegistryService) RemoveRoom(ctx context.Context, admin User, number string) (err error) {
	if s == nil {
		return fmt.Errorf("RegistryService is nil")
	}
	if s.rooms == nil {
		return fmt.Errorf("room registry not configured")
	}

	number = strings.TrimSpace(number)

	logger := s.loggerWith(ctx, "RemoveRoom",
		"admin", admin.Username,
		"room_number", number,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to remove room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room removed")
	}()

	if !admin.Role.CanAdministerRooms() {
		return ErrUnauthorized
	}

	room, lookupErr := s.rooms.GetRoomByNumber(ctx, number)
	if lookupErr != nil {
		if isNotFound(lookupErr) {
			return ErrRoomNotRegistered
		}
		return lookupErr
	}

	if deleteErr := s.rooms.DeleteRoom(ctx, room.ID); deleteErr != nil {
		if isNotFound(deleteErr) {
			return ErrRoomNotRegistered
		}
		return deleteErr
	}

	return s.appendAudit(ctx, fmt.Sprintf("room %s removed by admin %s", room.Number, admin.Username))
}

// DelegateAddRoom forwards a room addition from a manager to an admin. The
// manager holds no registry; the mutation and the audit attribution belong
// to the admin.
func (s *RegistryService) DelegateAddRoom(ctx context.Context, manager, admin User, input RoomInput) (Room, error) {
	if s == nil {
		return Room{}, fmt.Errorf("RegistryService is nil")
	}
	if manager.Role != RoleManager {
		return Room{}, ErrUnauthorized
	}
	return s.AddRoom(ctx, admin, input)
}

// DelegateRemoveRoom forwards a room removal from a manager to an admin.
func (s *RegistryService) DelegateRemoveRoom(ctx context.Context, manager, admin User, number string) error {
	if s == nil {
		return fmt.Errorf("RegistryService is nil")
	}
	if manager.Role != RoleManager {
		return ErrUnauthorized
	}
	return s.RemoveRoom(ctx, admin, number)
}

// AddSchedule announces an operating window on a room. Managers mutate the
// room directly with no admin involvement; windows are accepted
// unconditionally once well formed and are never checked against bookings.
func (s *RegistryService) AddSchedule(ctx context.Context, manager User, number string, window booking.Window) (err error) {
	if s == nil {
		return fmt.Errorf("RegistryService is nil")
	}
	if s.rooms == nil {
		return fmt.Errorf("room registry not configured")
	}

	number = strings.TrimSpace(number)

	logger := s.loggerWith(ctx, "AddSchedule",
		"manager", manager.Username,
		"room_number", number,
		"window", window.String(),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add schedule", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "schedule added")
	}()

	if !manager.Role.CanManageSchedules() {
		return ErrUnauthorized
	}

	if window.Validate() != nil {
		return ErrInvalidTimeRange
	}

	room, lookupErr := s.rooms.GetRoomByNumber(ctx, number)
	if lookupErr != nil {
		if isNotFound(lookupErr) {
			return ErrRoomNotRegistered
		}
		return lookupErr
	}

	if addErr := s.rooms.AddSchedule(ctx, room.ID, window); addErr != nil {
		if isNotFound(addErr) {
			return ErrRoomNotRegistered
		}
		if errors.Is(addErr, persistence.ErrConstraintViolation) {
			return ErrInvalidTimeRange
		}
		return addErr
	}

	return nil
}

// ViewLogs returns the full shared audit log in insertion order. Only admins
// may read it.
func (s *RegistryService) ViewLogs(ctx context.Context, admin User) ([]AuditEntry, error) {
	if s == nil {
		return nil, fmt.Errorf("RegistryService is nil")
	}
	if !admin.Role.CanViewLogs() {
		return nil, ErrUnauthorized
	}
	if s.audit == nil {
		return nil, nil
	}

	entries, err := s.audit.Entries(ctx)
	if err != nil {
		s.loggerWith(ctx, "ViewLogs", "admin", admin.Username).
			ErrorContext(ctx, "failed to read audit log", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}

	return entries, nil
}

// ListRooms returns the registry contents ordered by room number.
func (s *RegistryService) ListRooms(ctx context.Context) ([]Room, error) {
	if s == nil {
		return nil, fmt.Errorf("RegistryService is nil")
	}
	if s.rooms == nil {
		return nil, nil
	}

	raw, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	rooms := make([]Room, len(raw))
	copy(rooms, raw)

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].Number == rooms[j].Number {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].Number < rooms[j].Number
	})

	return rooms, nil
}

func (s *RegistryService) appendAudit(ctx context.Context, message string) error {
	if s.audit == nil {
		return nil
	}
	if _, err := s.audit.Append(ctx, message); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}
