package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/campus-booking/internal/application"
	"github.com/example/campus-booking/internal/persistence"
	"github.com/example/campus-booking/internal/session"
)

// SessionSecret signs tokens issued by factory-built auth services.
const SessionSecret = "test-session-secret-0123456789abcdef"

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	SessionTTL  time.Duration
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
		SessionTTL:  time.Hour,
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
	if factory.SessionTTL <= 0 {
		factory.SessionTTL = time.Hour
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

// WithLogger routes service logs to logger.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// Services bundles the application services sharing one store.
type Services struct {
	Users     *application.UserService
	Auth      *application.AuthService
	Resources *application.ResourceService
	Bookings  *application.BookingService
	Tokens    *session.Issuer
}

// ServicesDeps captures the optional overrides for NewServices.
type ServicesDeps struct {
	Store          persistence.DocumentStore
	Booking        application.BookingOptions
	PasswordHash   application.PasswordHasher
	PasswordVerify application.PasswordVerifier
}

// NewServices wires every application service over deps.Store using the
// factory clock and id generator.
func (f *ServiceFactory) NewServices(deps ServicesDeps) (Services, error) {
	tokens, err := session.NewIssuer(SessionSecret, f.SessionTTL, f.Clock.NowFunc())
	if err != nil {
		return Services{}, err
	}

	idGen := f.IDGenerator.NextFunc()
	return Services{
		Users:     application.NewUserServiceWithLogger(deps.Store, idGen, deps.PasswordHash, f.Logger),
		Auth:      application.NewAuthServiceWithLogger(deps.Store, tokens, deps.PasswordVerify, f.Logger),
		Resources: application.NewResourceServiceWithLogger(deps.Store, idGen, f.Logger),
		Bookings:  application.NewBookingServiceWithLogger(deps.Store, idGen, f.Clock.NowFunc(), deps.Booking, f.Logger),
		Tokens:    tokens,
	}, nil
}
