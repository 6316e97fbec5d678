package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/room-reservation/internal/application"
	"github.com/example/room-reservation/internal/config"
	"github.com/example/room-reservation/internal/logging"
	"github.com/example/room-reservation/internal/persistence"
	"github.com/example/room-reservation/internal/persistence/memory"
	"github.com/example/room-reservation/internal/persistence/sqlite"
)

var rootCmd = &cobra.Command{
	Use:   "reservations",
	Short: "Room reservation service",
	Long: `An in-memory room reservation service with a user directory,
role based permissions, an admin owned room registry, and an
append-only audit log.

Storage defaults to the in-process map store; set
RESERVATIONS_STORAGE=sqlite for the in-memory SQLite backend.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app bundles the wired services for a command invocation.
type app struct {
	directory    *application.DirectoryService
	registry     *application.RegistryService
	reservations *application.ReservationService

	cleanup func()
}

func (a *app) Close() {
	if a != nil && a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
}

// store combines the persistence interfaces every backend satisfies.
type store interface {
	persistence.UserRepository
	persistence.RoomRepository
	persistence.ReservationRepository
	persistence.AuditLog
	Close() error
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.NewLogger(os.Stderr, cfg.LogLevel)

	var backend store
	switch cfg.Storage {
	case config.StorageSQLite:
		sqliteStore, err := sqlite.Open(cfg.SQLiteDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		if err := sqliteStore.Migrate(context.Background()); err != nil {
			_ = sqliteStore.Close()
			return nil, fmt.Errorf("failed to migrate sqlite store: %w", err)
		}
		backend = sqliteStore
	default:
		backend = memory.Open()
	}

	idGenerator := uuid.NewString
	now := time.Now

	users := newDirectoryAdapter(backend)
	rooms := newRoomRegistryAdapter(backend)
	reservations := newReservationStoreAdapter(backend)
	audit := newAuditLogAdapter(backend, now)

	directory := application.NewDirectoryServiceWithLogger(users, audit, idGenerator, now, logger)
	registry := application.NewRegistryServiceWithLogger(rooms, audit, idGenerator, now, logger)
	reservationService := application.NewReservationServiceWithLogger(reservations, rooms, audit, idGenerator, now, logger)
	reservationService.SetAvailabilityCache(cfg.AvailabilityTTL, cfg.AvailabilitySize)

	return &app{
		directory:    directory,
		registry:     registry,
		reservations: reservationService,
		cleanup: func() {
			if err := backend.Close(); err != nil {
				logger.Error("failed to close store", "error", err)
			}
		},
	}, nil
}
