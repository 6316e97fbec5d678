package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/room-reservation/internal/booking"
)

var (
	testAdmin   = User{ID: "admin-1", Username: "admin1", Role: RoleAdmin}
	testManager = User{ID: "manager-1", Username: "manager1", Role: RoleManager}
	testUser    = User{ID: "user-1", Username: "user1", Role: RoleUser}
)

func newRegistryService(rooms RoomRegistry, audit AuditLog) *RegistryService {
	return NewRegistryService(rooms, audit, sequenceIDs("room"), fixedClock())
}

func TestRegistryAddRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a room for an admin", func(t *testing.T) {
		audit := &stubAudit{}
		service := newRegistryService(newStubRegistry(), audit)

		room, err := service.AddRoom(ctx, testAdmin, RoomInput{Number: "101"})
		if err != nil {
			t.Fatalf("AddRoom returned error: %v", err)
		}
		if room.Number != "101" || room.ManagedBy != testAdmin.ID {
			t.Fatalf("unexpected room: %+v", room)
		}
		if audit.lastMessage() != "room 101 added by admin admin1" {
			t.Fatalf("unexpected audit message: %q", audit.lastMessage())
		}
	})

	t.Run("rejects non-admin callers", func(t *testing.T) {
		service := newRegistryService(newStubRegistry(), &stubAudit{})
		for _, caller := range []User{testManager, testUser} {
			if _, err := service.AddRoom(ctx, caller, RoomInput{Number: "101"}); !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized for %s, got %v", caller.Role, err)
			}
		}
	})

	t.Run("rejects a duplicate room number", func(t *testing.T) {
		service := newRegistryService(newStubRegistry(), &stubAudit{})
		if _, err := service.AddRoom(ctx, testAdmin, RoomInput{Number: "101"}); err != nil {
			t.Fatalf("first AddRoom returned error: %v", err)
		}
		if _, err := service.AddRoom(ctx, testAdmin, RoomInput{Number: "101"}); !errors.Is(err, ErrRoomExists) {
			t.Fatalf("expected ErrRoomExists, got %v", err)
		}
	})

	t.Run("rejects a blank room number", func(t *testing.T) {
		service := newRegistryService(newStubRegistry(), &stubAudit{})
		_, err := service.AddRoom(ctx, testAdmin, RoomInput{Number: "   "})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestRegistryRemoveRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("removes a registered room and records it", func(t *testing.T) {
		audit := &stubAudit{}
		service := newRegistryService(newStubRegistry(), audit)
		if _, err := service.AddRoom(ctx, testAdmin, RoomInput{Number: "101"}); err != nil {
			t.Fatalf("AddRoom returned error: %v", err)
		}

		if err := service.RemoveRoom(ctx, testAdmin, "101"); err != nil {
			t.Fatalf("RemoveRoom returned error: %v", err)
		}
		if audit.lastMessage() != "room 101 removed by admin admin1" {
			t.Fatalf("unexpected audit message: %q", audit.lastMessage())
		}
	})

	t.Run("reports an unknown room without logging", func(t *testing.T) {
		audit := &stubAudit{}
		service := newRegistryService(newStubRegistry(), audit)

		if err := service.RemoveRoom(ctx, testAdmin, "404"); !errors.Is(err, ErrRoomNotRegistered) {
			t.Fatalf("expected ErrRoomNotRegistered, got %v", err)
		}
		if len(audit.entries) != 0 {
			t.Fatalf("failed removal must not append audit entries")
		}
	})

	t.Run("fails on the second removal of the same room", func(t *testing.T) {
		audit := &stubAudit{}
		service := newRegistryService(newStubRegistry(), audit)
		if _, err := service.AddRoom(ctx, testAdmin, RoomInput{Number: "101"}); err != nil {
			t.Fatalf("AddRoom returned error: %v", err)
		}
		if err := service.RemoveRoom(ctx, testAdmin, "101"); err != nil {
			t.Fatalf("first RemoveRoom returned error: %v", err)
		}
		if err := service.RemoveRoom(ctx, testAdmin, "101"); !errors.Is(err, ErrRoomNotRegistered) {
			t.Fatalf("expected ErrRoomNotRegistered on repeat removal, got %v", err)
		}
		if len(audit.entries) != 2 {
			t.Fatalf("expected add and remove entries only, got %d", len(audit.entries))
		}
	})

	t.Run("rejects non-admin callers", func(t *testing.T) {
		service := newRegistryService(newStubRegistry(), &stubAudit{})
		if err := service.RemoveRoom(ctx, testManager, "101"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestRegistryDelegation(t *testing.T) {
	ctx := context.Background()

	t.Run("manager delegates room lifecycle to an admin", func(t *testing.T) {
		audit := &stubAudit{}
		service := newRegistryService(newStubRegistry(), audit)

		room, err := service.DelegateAddRoom(ctx, testManager, testAdmin, RoomInput{Number: "102"})
		if err != nil {
			t.Fatalf("DelegateAddRoom returned error: %v", err)
		}
		if room.ManagedBy != testAdmin.ID {
			t.Fatalf("delegated room must be attributed to the admin, got %+v", room)
		}
		if audit.lastMessage() != "room 102 added by admin admin1" {
			t.Fatalf("unexpected audit message: %q", audit.lastMessage())
		}

		if err := service.DelegateRemoveRoom(ctx, testManager, testAdmin, "102"); err != nil {
			t.Fatalf("DelegateRemoveRoom returned error: %v", err)
		}
	})

	t.Run("only managers may delegate", func(t *testing.T) {
		service := newRegistryService(newStubRegistry(), &stubAudit{})
		if _, err := service.DelegateAddRoom(ctx, testUser, testAdmin, RoomInput{Number: "102"}); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized for user delegation, got %v", err)
		}
		if _, err := service.DelegateAddRoom(ctx, testAdmin, testAdmin, RoomInput{Number: "102"}); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized for admin delegation, got %v", err)
		}
	})

	t.Run("delegation to a non-admin target fails", func(t *testing.T) {
		service := newRegistryService(newStubRegistry(), &stubAudit{})
		if _, err := service.DelegateAddRoom(ctx, testManager, testUser, RoomInput{Number: "102"}); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized for non-admin target, got %v", err)
		}
	})
}

func TestRegistryAddSchedule(t *testing.T) {
	ctx := context.Background()
	window := booking.Window{
		Start: testReferenceTime,
		End:   testReferenceTime.Add(2 * time.Hour),
	}

	setup := func(t *testing.T) (*RegistryService, *stubRegistry) {
		t.Helper()
		registry := newStubRegistry()
		service := newRegistryService(registry, &stubAudit{})
		if _, err := service.AddRoom(ctx, testAdmin, RoomInput{Number: "101"}); err != nil {
			t.Fatalf("AddRoom returned error: %v", err)
		}
		return service, registry
	}

	t.Run("managers announce windows directly", func(t *testing.T) {
		service, registry := setup(t)
		if err := service.AddSchedule(ctx, testManager, "101", window); err != nil {
			t.Fatalf("AddSchedule returned error: %v", err)
		}

		room, err := registry.GetRoomByNumber(ctx, "101")
		if err != nil {
			t.Fatalf("GetRoomByNumber returned error: %v", err)
		}
		if len(room.Schedules) != 1 || !room.Schedules[0].Start.Equal(window.Start) {
			t.Fatalf("expected announced window on room, got %+v", room.Schedules)
		}
	})

	t.Run("admins and plain users may not manage schedules", func(t *testing.T) {
		service, _ := setup(t)
		for _, caller := range []User{testAdmin, testUser} {
			if err := service.AddSchedule(ctx, caller, "101", window); !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized for %s, got %v", caller.Role, err)
			}
		}
	})

	t.Run("rejects a malformed window", func(t *testing.T) {
		service, _ := setup(t)
		inverted := booking.Window{Start: window.End, End: window.Start}
		if err := service.AddSchedule(ctx, testManager, "101", inverted); !errors.Is(err, ErrInvalidTimeRange) {
			t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
		}
	})

	t.Run("rejects an unknown room", func(t *testing.T) {
		service, _ := setup(t)
		if err := service.AddSchedule(ctx, testManager, "404", window); !errors.Is(err, ErrRoomNotRegistered) {
			t.Fatalf("expected ErrRoomNotRegistered, got %v", err)
		}
	})
}

func TestRegistryViewLogs(t *testing.T) {
	ctx := context.Background()
	audit := &stubAudit{}
	service := newRegistryService(newStubRegistry(), audit)

	if _, err := service.AddRoom(ctx, testAdmin, RoomInput{Number: "101"}); err != nil {
		t.Fatalf("AddRoom returned error: %v", err)
	}
	if _, err := service.AddRoom(ctx, testAdmin, RoomInput{Number: "102"}); err != nil {
		t.Fatalf("AddRoom returned error: %v", err)
	}

	entries, err := service.ViewLogs(ctx, testAdmin)
	if err != nil {
		t.Fatalf("ViewLogs returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "room 101 added by admin admin1" {
		t.Fatalf("unexpected first entry: %q", entries[0].Message)
	}
	if entries[0].Seq >= entries[1].Seq {
		t.Fatalf("expected strictly increasing sequence numbers")
	}

	for _, caller := range []User{testManager, testUser} {
		if _, err := service.ViewLogs(ctx, caller); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized for %s, got %v", caller.Role, err)
		}
	}
}

func TestRegistryListRooms(t *testing.T) {
	ctx := context.Background()
	service := newRegistryService(newStubRegistry(), &stubAudit{})

	for _, number := range []string{"202", "101", "303"} {
		if _, err := service.AddRoom(ctx, testAdmin, RoomInput{Number: number}); err != nil {
			t.Fatalf("AddRoom(%s) returned error: %v", number, err)
		}
	}

	rooms, err := service.ListRooms(ctx)
	if err != nil {
		t.Fatalf("ListRooms returned error: %v", err)
	}
	got := make([]string, 0, len(rooms))
	for _, room := range rooms {
		got = append(got, room.Number)
	}
	want := []string{"101", "202", "303"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected rooms ordered by number %v, got %v", want, got)
		}
	}
}
