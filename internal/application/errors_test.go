package application

import (
	"errors"
	"fmt"
	"testing"

	"github.com/example/campus-booking/internal/persistence"
	"github.com/example/campus-booking/internal/scheduler"
)

func TestErrorKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "not found", err: ErrNotFound, want: "not_found"},
		{name: "persistence not found", err: persistence.ErrNotFound, want: "not_found"},
		{name: "invalid credentials", err: fmt.Errorf("login: %w", ErrInvalidCredentials), want: "invalid_credentials"},
		{name: "unauthorized", err: ErrUnauthorized, want: "unauthorized"},
		{name: "conflict", err: &ConflictError{}, want: "conflict"},
		{name: "invalid input", err: ErrInvalidInput, want: "invalid_input"},
		{name: "write failed", err: fmt.Errorf("%w: disk", persistence.ErrWriteFailed), want: "store_write"},
		{name: "store unavailable", err: ErrStoreUnavailable, want: "store_unavailable"},
		{name: "other", err: errors.New("boom"), want: "unexpected"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ErrorKind(tt.err); got != tt.want {
				t.Fatalf("ErrorKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConflictErrorMessage(t *testing.T) {
	t.Parallel()

	err := &ConflictError{Conflicts: []scheduler.Conflict{{WithBookingID: "b-1"}, {WithBookingID: "b-2"}}}
	if got := err.Error(); got != "application: booking conflict with b-1, b-2" {
		t.Fatalf("unexpected message %q", got)
	}
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ConflictError to match ErrConflict")
	}
}
