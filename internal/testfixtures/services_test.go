package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/example/room-reservation/internal/application"
	"github.com/example/room-reservation/internal/booking"
	"github.com/example/room-reservation/internal/persistence"
)

type capturingDirectory struct {
	created application.Credentials
}

func (c *capturingDirectory) CreateUser(ctx context.Context, creds application.Credentials) error {
	c.created = creds
	return nil
}

func (c *capturingDirectory) GetCredentialsByUsername(ctx context.Context, username string) (application.Credentials, error) {
	return application.Credentials{}, persistence.ErrNotFound
}

func TestServiceFactoryNewDirectoryService(t *testing.T) {
	factory := NewServiceFactory()
	repo := &capturingDirectory{}

	svc := factory.NewDirectoryService(DirectoryServiceDeps{Users: repo})

	user, err := svc.SignUp(context.Background(), application.SignUpParams{
		Username: "user1",
		Secret:   "pw",
		Role:     application.RoleUser,
	})
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}

	if user.ID != "id-1" {
		t.Fatalf("expected generated ID id-1, got %q", user.ID)
	}
	if repo.created.User.ID != user.ID {
		t.Fatalf("repository received unexpected ID: %q", repo.created.User.ID)
	}
	if !user.CreatedAt.Equal(factory.Clock.Now()) {
		t.Fatalf("expected timestamp %v, got %v", factory.Clock.Now(), user.CreatedAt)
	}
}

type capturingRegistry struct {
	created application.Room
}

func (c *capturingRegistry) CreateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	c.created = room
	return room, nil
}

func (c *capturingRegistry) GetRoomByNumber(ctx context.Context, number string) (application.Room, error) {
	return application.Room{}, persistence.ErrNotFound
}

func (c *capturingRegistry) AddSchedule(ctx context.Context, roomID string, window booking.Window) error {
	return nil
}

func (c *capturingRegistry) ListRooms(ctx context.Context) ([]application.Room, error) {
	return nil, nil
}

func (c *capturingRegistry) DeleteRoom(ctx context.Context, id string) error {
	return persistence.ErrNotFound
}

func TestServiceFactoryNewRegistryService(t *testing.T) {
	factory := NewServiceFactory(
		WithClock(NewClock(ReferenceTime())),
		WithIDGenerator(NewIDGenerator("room")),
	)
	registry := &capturingRegistry{}

	svc := factory.NewRegistryService(RegistryServiceDeps{Rooms: registry})

	admin := application.User{ID: "admin-1", Username: "admin1", Role: application.RoleAdmin}
	room, err := svc.AddRoom(context.Background(), admin, application.RoomInput{Number: "101"})
	if err != nil {
		t.Fatalf("AddRoom returned error: %v", err)
	}

	if room.ID != "room-1" {
		t.Fatalf("expected generated ID room-1, got %q", room.ID)
	}
	if registry.created.ManagedBy != admin.ID {
		t.Fatalf("registry received unexpected attribution: %q", registry.created.ManagedBy)
	}
	if !room.CreatedAt.Equal(ReferenceTime()) {
		t.Fatalf("expected timestamp %v, got %v", ReferenceTime(), room.CreatedAt)
	}
}

type capturingReservations struct {
	created application.Reservation
}

func (c *capturingReservations) CreateReservation(ctx context.Context, reservation application.Reservation) (application.Reservation, error) {
	c.created = reservation
	return reservation, nil
}

func (c *capturingReservations) GetReservation(ctx context.Context, id string) (application.Reservation, error) {
	return application.Reservation{}, persistence.ErrNotFound
}

func (c *capturingReservations) DeleteReservation(ctx context.Context, id string) error {
	return persistence.ErrNotFound
}

func (c *capturingReservations) ListReservationsForUser(ctx context.Context, userID string) ([]application.Reservation, error) {
	return nil, nil
}

func (c *capturingReservations) ListReservationsForRoom(ctx context.Context, roomID string) ([]application.Reservation, error) {
	return nil, nil
}

type staticRoomLookup struct {
	room application.Room
}

func (s staticRoomLookup) GetRoomByNumber(ctx context.Context, number string) (application.Room, error) {
	if number != s.room.Number {
		return application.Room{}, persistence.ErrNotFound
	}
	return s.room, nil
}

func TestServiceFactoryNewReservationService(t *testing.T) {
	factory := NewServiceFactory(
		WithClock(NewClock(ReferenceTime())),
		WithIDGenerator(NewIDGenerator("reservation")),
	)
	store := &capturingReservations{}
	lookup := staticRoomLookup{room: application.Room{ID: "room-1", Number: "101"}}

	svc := factory.NewReservationService(ReservationServiceDeps{
		Reservations: store,
		Rooms:        lookup,
	})

	user := application.User{ID: "user-1", Username: "user1", Role: application.RoleUser}
	start := ReferenceTime().Add(time.Hour)
	reservation, err := svc.MakeReservation(context.Background(), user, "101", start, start.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("MakeReservation returned error: %v", err)
	}

	if reservation.ID != "reservation-1" {
		t.Fatalf("expected generated ID reservation-1, got %q", reservation.ID)
	}
	if store.created.RoomID != "room-1" || store.created.UserID != user.ID {
		t.Fatalf("store received unexpected reservation: %+v", store.created)
	}
	if !reservation.CreatedAt.Equal(ReferenceTime()) {
		t.Fatalf("expected timestamp %v, got %v", ReferenceTime(), reservation.CreatedAt)
	}
}
