package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/campus-booking/internal/persistence"
)

type storeProbe interface {
	Load(ctx context.Context) (persistence.Document, error)
}

// HealthHandler reports whether the document store can be read.
type HealthHandler struct {
	store     storeProbe
	timeout   time.Duration
	responder responder
}

func NewHealthHandler(store storeProbe, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, timeout: 2 * time.Second, responder: newResponder(defaultLogger(logger))}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if _, err := h.store.Load(ctx); err != nil {
		h.responder.loggerFor(r.Context()).WarnContext(r.Context(), "health check failed", "error", err)
		h.responder.writeJSON(r.Context(), w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok"})
}

type healthResponse struct {
	Status string `json:"status"`
}
