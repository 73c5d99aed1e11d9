package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/campus-booking/internal/application"
	"github.com/example/campus-booking/internal/persistence"
)

type dashboardService interface {
	Dashboard(ctx context.Context, userID persistence.ID) (application.Dashboard, error)
}

// SessionHandler serves the signed-in user's own view. Every route sits
// behind RequireSession.
type SessionHandler struct {
	service   dashboardService
	responder responder
	logger    *slog.Logger
}

func NewSessionHandler(service dashboardService, logger *slog.Logger) *SessionHandler {
	base := defaultLogger(logger)
	return &SessionHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SessionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SessionHandler", operation, attrs...)
}

func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, sessionResponse{
		User:      principal.User,
		ExpiresAt: principal.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *SessionHandler) Bookings(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	logger := h.log(r.Context(), "Bookings", "user_id", principal.User.ID)

	dashboard, err := h.service.Dashboard(r.Context(), principal.User.ID)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to build dashboard", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, failureMessages{notFound: "User not found", failed: msgInternal})
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, dashboardResponse{
		User:     dashboard.User,
		Upcoming: dashboard.Upcoming,
		History:  dashboard.History,
	})
}

type sessionResponse struct {
	User      persistence.User `json:"user"`
	ExpiresAt string           `json:"expiresAt"`
}

type dashboardResponse struct {
	User     persistence.User      `json:"user"`
	Upcoming []persistence.Booking `json:"upcoming"`
	History  []persistence.Booking `json:"history"`
}
