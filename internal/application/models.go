package application

import (
	"time"

	"github.com/example/campus-booking/internal/persistence"
)

// Principal is the user behind a validated session token.
type Principal struct {
	User      persistence.User
	ExpiresAt time.Time
}

// LoginParams carries the credentials submitted to Login.
type LoginParams struct {
	RegistrationNumber string
	Password           string
}

// LoginResult is returned on successful authentication. User never carries
// the password.
type LoginResult struct {
	User      persistence.User
	Token     string
	ExpiresAt time.Time
}

// CreateBookingParams carries the fields a client supplies for a booking.
// Date and times are stored as given.
type CreateBookingParams struct {
	UserID     persistence.ID
	ResourceID persistence.ID
	Date       string
	StartTime  string
	EndTime    string
}

// Dashboard splits a user's bookings around the current date.
type Dashboard struct {
	User     persistence.User
	Upcoming []persistence.Booking
	History  []persistence.Booking
}

// BookingObserver is notified about booking activity. The metrics recorder
// implements it.
type BookingObserver interface {
	BookingCreated(resourceType string)
	BookingCancelled()
	ConflictDetected(rejected bool)
}

type noopObserver struct{}

func (noopObserver) BookingCreated(string) {}
func (noopObserver) BookingCancelled()     {}
func (noopObserver) ConflictDetected(bool) {}

// publicUser strips the password before a user leaves the service layer.
func publicUser(user persistence.User) persistence.User {
	user.Password = ""
	return user
}

func publicUsers(users []persistence.User) []persistence.User {
	out := make([]persistence.User, len(users))
	for i, user := range users {
		out[i] = publicUser(user)
	}
	return out
}
