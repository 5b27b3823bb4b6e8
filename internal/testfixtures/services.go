package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/running-order/internal/application"
	"github.com/example/running-order/internal/migrate"
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
	factory := &ServiceFactory{}
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

// ProgrammeServiceDeps captures dependencies for constructing a programme service.
type ProgrammeServiceDeps struct {
	Store       application.DocumentStore
	Migrator    *migrate.Migrator
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewProgrammeService builds a programme service using the supplied
// dependencies combined with the factory defaults. The clock drives the
// document cache expiry.
func (f *ServiceFactory) NewProgrammeService(deps ProgrammeServiceDeps) *application.ProgrammeService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewProgrammeServiceWithLogger(
		deps.Store,
		deps.Migrator,
		idGen,
		now,
		deps.Logger,
	)
}
