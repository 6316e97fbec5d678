package main

import (
	"context"
	"time"

	"github.com/example/room-reservation/internal/application"
	"github.com/example/room-reservation/internal/booking"
	"github.com/example/room-reservation/internal/persistence"
)

// The adapters translate between application models and persistence models
// so neither package imports the other's types directly.

type directoryAdapter struct {
	repo persistence.UserRepository
}

func newDirectoryAdapter(repo persistence.UserRepository) *directoryAdapter {
	return &directoryAdapter{repo: repo}
}

func (a *directoryAdapter) CreateUser(ctx context.Context, creds application.Credentials) error {
	return a.repo.CreateUser(ctx, toPersistenceUser(creds))
}

func (a *directoryAdapter) GetCredentialsByUsername(ctx context.Context, username string) (application.Credentials, error) {
	stored, err := a.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return application.Credentials{}, err
	}
	return toApplicationCredentials(stored), nil
}

type roomRegistryAdapter struct {
	repo persistence.RoomRepository
}

func newRoomRegistryAdapter(repo persistence.RoomRepository) *roomRegistryAdapter {
	return &roomRegistryAdapter{repo: repo}
}

func (a *roomRegistryAdapter) CreateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repo.CreateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	stored, err := a.repo.GetRoom(ctx, room.ID)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRegistryAdapter) GetRoomByNumber(ctx context.Context, number string) (application.Room, error) {
	stored, err := a.repo.GetRoomByNumber(ctx, number)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRegistryAdapter) AddSchedule(ctx context.Context, roomID string, window booking.Window) error {
	return a.repo.AddSchedule(ctx, roomID, persistence.Window{Start: window.Start, End: window.End})
}

func (a *roomRegistryAdapter) ListRooms(ctx context.Context) ([]application.Room, error) {
	models, err := a.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	rooms := make([]application.Room, 0, len(models))
	for _, model := range models {
		rooms = append(rooms, toApplicationRoom(model))
	}
	return rooms, nil
}

func (a *roomRegistryAdapter) DeleteRoom(ctx context.Context, id string) error {
	return a.repo.DeleteRoom(ctx, id)
}

type reservationStoreAdapter struct {
	repo persistence.ReservationRepository
}

func newReservationStoreAdapter(repo persistence.ReservationRepository) *reservationStoreAdapter {
	return &reservationStoreAdapter{repo: repo}
}

func (a *reservationStoreAdapter) CreateReservation(ctx context.Context, reservation application.Reservation) (application.Reservation, error) {
	if err := a.repo.CreateReservation(ctx, toPersistenceReservation(reservation)); err != nil {
		return application.Reservation{}, err
	}
	stored, err := a.repo.GetReservation(ctx, reservation.ID)
	if err != nil {
		return application.Reservation{}, err
	}
	return toApplicationReservation(stored), nil
}

func (a *reservationStoreAdapter) GetReservation(ctx context.Context, id string) (application.Reservation, error) {
	stored, err := a.repo.GetReservation(ctx, id)
	if err != nil {
		return application.Reservation{}, err
	}
	return toApplicationReservation(stored), nil
}

func (a *reservationStoreAdapter) DeleteReservation(ctx context.Context, id string) error {
	return a.repo.DeleteReservation(ctx, id)
}

func (a *reservationStoreAdapter) ListReservationsForUser(ctx context.Context, userID string) ([]application.Reservation, error) {
	models, err := a.repo.ListReservationsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toApplicationReservations(models), nil
}

func (a *reservationStoreAdapter) ListReservationsForRoom(ctx context.Context, roomID string) ([]application.Reservation, error) {
	models, err := a.repo.ListReservationsForRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return toApplicationReservations(models), nil
}

type auditLogAdapter struct {
	log persistence.AuditLog
	now func() time.Time
}

func newAuditLogAdapter(log persistence.AuditLog, now func() time.Time) *auditLogAdapter {
	if now == nil {
		now = time.Now
	}
	return &auditLogAdapter{log: log, now: now}
}

func (a *auditLogAdapter) Append(ctx context.Context, message string) (application.AuditEntry, error) {
	entry, err := a.log.AppendEntry(ctx, a.now(), message)
	if err != nil {
		return application.AuditEntry{}, err
	}
	return toApplicationAuditEntry(entry), nil
}

func (a *auditLogAdapter) Entries(ctx context.Context) ([]application.AuditEntry, error) {
	models, err := a.log.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	entries := make([]application.AuditEntry, 0, len(models))
	for _, model := range models {
		entries = append(entries, toApplicationAuditEntry(model))
	}
	return entries, nil
}

func toPersistenceUser(creds application.Credentials) persistence.User {
	return persistence.User{
		ID:        creds.User.ID,
		Username:  creds.User.Username,
		Secret:    creds.Secret,
		Role:      string(creds.User.Role),
		CreatedAt: creds.User.CreatedAt,
	}
}

func toApplicationCredentials(user persistence.User) application.Credentials {
	return application.Credentials{
		User: application.User{
			ID:        user.ID,
			Username:  user.Username,
			Role:      application.Role(user.Role),
			CreatedAt: user.CreatedAt,
		},
		Secret: user.Secret,
	}
}

func toPersistenceRoom(room application.Room) persistence.Room {
	schedules := make([]persistence.Window, 0, len(room.Schedules))
	for _, window := range room.Schedules {
		schedules = append(schedules, persistence.Window{Start: window.Start, End: window.End})
	}
	return persistence.Room{
		ID:        room.ID,
		Number:    room.Number,
		ManagedBy: room.ManagedBy,
		Schedules: schedules,
		CreatedAt: room.CreatedAt,
	}
}

func toApplicationRoom(room persistence.Room) application.Room {
	schedules := make([]booking.Window, 0, len(room.Schedules))
	for _, window := range room.Schedules {
		schedules = append(schedules, booking.Window{Start: window.Start, End: window.End})
	}
	return application.Room{
		ID:        room.ID,
		Number:    room.Number,
		ManagedBy: room.ManagedBy,
		Schedules: schedules,
		CreatedAt: room.CreatedAt,
	}
}

func toPersistenceReservation(reservation application.Reservation) persistence.Reservation {
	return persistence.Reservation{
		ID:         reservation.ID,
		UserID:     reservation.UserID,
		RoomID:     reservation.RoomID,
		RoomNumber: reservation.RoomNumber,
		Start:      reservation.Start,
		End:        reservation.End,
		CreatedAt:  reservation.CreatedAt,
	}
}

func toApplicationReservation(reservation persistence.Reservation) application.Reservation {
	return application.Reservation{
		ID:         reservation.ID,
		UserID:     reservation.UserID,
		RoomID:     reservation.RoomID,
		RoomNumber: reservation.RoomNumber,
		Start:      reservation.Start,
		End:        reservation.End,
		CreatedAt:  reservation.CreatedAt,
	}
}

func toApplicationReservations(models []persistence.Reservation) []application.Reservation {
	if len(models) == 0 {
		return nil
	}
	reservations := make([]application.Reservation, 0, len(models))
	for _, model := range models {
		reservations = append(reservations, toApplicationReservation(model))
	}
	return reservations
}

func toApplicationAuditEntry(entry persistence.AuditEntry) application.AuditEntry {
	return application.AuditEntry{
		Seq:     entry.Seq,
		At:      entry.At,
		Message: entry.Message,
	}
}
