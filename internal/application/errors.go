package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/campus-booking/internal/scheduler"
)

var (
	// ErrUnauthorized is returned when a request carries no valid session.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrInvalidCredentials is returned for every login mismatch.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrConflict is returned when a booking overlaps an existing one and
	// overlapping bookings are being rejected.
	ErrConflict = errors.New("application: booking conflict")
	// ErrInvalidInput is returned when a request field cannot be applied to a record.
	ErrInvalidInput = errors.New("application: invalid input")
	// ErrStoreUnavailable is returned when the document could not be loaded.
	ErrStoreUnavailable = errors.New("application: store unavailable")
)

// ConflictError lists the bookings a rejected booking request overlaps.
type ConflictError struct {
	Conflicts []scheduler.Conflict
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e == nil || len(e.Conflicts) == 0 {
		return ErrConflict.Error()
	}
	ids := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		ids = append(ids, c.WithBookingID)
	}
	return fmt.Sprintf("%s with %s", ErrConflict.Error(), strings.Join(ids, ", "))
}

// Unwrap lets errors.Is match ErrConflict.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
