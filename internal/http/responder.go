package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/campus-booking/internal/application"
)

const (
	msgInvalidBody        = "Invalid request body"
	msgInvalidCredentials = "Invalid credentials"
	msgUnauthorized       = "Authentication required"
	msgConflict           = "Resource already booked for this time slot"
	msgInternal           = "Internal server error"
)

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type conflictResponse struct {
	Error     string        `json:"error"`
	Conflicts []conflictDTO `json:"conflicts"`
}

type conflictDTO struct {
	BookingID string `json:"bookingId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// failureMessages names the client-facing text for the two failure modes
// every CRUD endpoint distinguishes.
type failureMessages struct {
	notFound string
	failed   string
}

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	r.writeJSON(ctx, w, status, errorResponse{Error: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error, messages failureMessages) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, messages.failed)
		return
	}

	var conflictErr *application.ConflictError
	switch {
	case errors.Is(err, application.ErrNotFound):
		r.writeError(ctx, w, http.StatusNotFound, messages.notFound)
	case errors.As(err, &conflictErr):
		payload := conflictResponse{Error: msgConflict, Conflicts: make([]conflictDTO, 0, len(conflictErr.Conflicts))}
		for _, c := range conflictErr.Conflicts {
			payload.Conflicts = append(payload.Conflicts, conflictDTO{
				BookingID: c.WithBookingID,
				Date:      c.Date,
				StartTime: c.StartTime,
				EndTime:   c.EndTime,
			})
		}
		r.writeJSON(ctx, w, http.StatusConflict, payload)
	case errors.Is(err, application.ErrConflict):
		r.writeError(ctx, w, http.StatusConflict, msgConflict)
	case errors.Is(err, application.ErrInvalidInput):
		r.writeError(ctx, w, http.StatusBadRequest, msgInvalidBody)
	case errors.Is(err, application.ErrUnauthorized):
		r.writeError(ctx, w, http.StatusUnauthorized, msgUnauthorized)
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "error", err, "error_kind", application.ErrorKind(err))
		r.writeError(ctx, w, http.StatusInternalServerError, messages.failed)
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}
