package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/room-reservation/internal/application"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// DirectoryServiceDeps captures dependencies for constructing a directory service.
type DirectoryServiceDeps struct {
	Users       application.DirectoryRepository
	Audit       application.AuditLog
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewDirectoryService builds a directory service using the supplied
// dependencies combined with the factory defaults.
func (f *ServiceFactory) NewDirectoryService(deps DirectoryServiceDeps) *application.DirectoryService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewDirectoryServiceWithLogger(deps.Users, deps.Audit, idGen, now, deps.Logger)
}

// RegistryServiceDeps captures dependencies for constructing a registry service.
type RegistryServiceDeps struct {
	Rooms       application.RoomRegistry
	Audit       application.AuditLog
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewRegistryService builds a registry service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewRegistryService(deps RegistryServiceDeps) *application.RegistryService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewRegistryServiceWithLogger(deps.Rooms, deps.Audit, idGen, now, deps.Logger)
}

// ReservationServiceDeps captures dependencies for constructing a reservation service.
type ReservationServiceDeps struct {
	Reservations application.ReservationStore
	Rooms        application.RoomLookup
	Audit        application.AuditLog
	IDGenerator  func() string
	Now          func() time.Time
	Logger       *slog.Logger
}

// NewReservationService builds a reservation service using the supplied
// dependencies combined with the factory defaults.
func (f *ServiceFactory) NewReservationService(deps ReservationServiceDeps) *application.ReservationService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewReservationServiceWithLogger(deps.Reservations, deps.Rooms, deps.Audit, idGen, now, deps.Logger)
}
