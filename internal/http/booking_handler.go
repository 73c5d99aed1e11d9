package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/campus-booking/internal/application"
	"github.com/example/campus-booking/internal/persistence"
)

const msgBookingNotFound = "Booking not found"

type bookingService interface {
	ListBookings(ctx context.Context) ([]persistence.Booking, error)
	GetBooking(ctx context.Context, id persistence.ID) (persistence.Booking, error)
	BookingsByUser(ctx context.Context, userID persistence.ID) ([]persistence.Booking, error)
	BookingsByResource(ctx context.Context, resourceID persistence.ID) ([]persistence.Booking, error)
	CreateBooking(ctx context.Context, params application.CreateBookingParams) (persistence.Booking, error)
	UpdateBooking(ctx context.Context, id persistence.ID, patch persistence.Patch) (persistence.Booking, error)
	CancelBooking(ctx context.Context, id persistence.ID) (persistence.Booking, error)
}

type BookingHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	return &BookingHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, "List", func(ctx context.Context) ([]persistence.Booking, error) {
		return h.service.ListBookings(ctx)
	})
}

func (h *BookingHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	userID := pathID(r, "userId")
	h.writeList(w, r, "ByUser", func(ctx context.Context) ([]persistence.Booking, error) {
		return h.service.BookingsByUser(ctx, userID)
	})
}

func (h *BookingHandler) ByResource(w http.ResponseWriter, r *http.Request) {
	resourceID := pathID(r, "resourceId")
	h.writeList(w, r, "ByResource", func(ctx context.Context) ([]persistence.Booking, error) {
		return h.service.BookingsByResource(ctx, resourceID)
	})
}

func (h *BookingHandler) writeList(w http.ResponseWriter, r *http.Request, operation string, list func(context.Context) ([]persistence.Booking, error)) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookings, err := list(r.Context())
	if err != nil {
		h.log(r.Context(), operation).ErrorContext(r.Context(), "failed to list bookings", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, failureMessages{notFound: msgBookingNotFound, failed: msgInternal})
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, bookings)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := pathID(r, "id")
	booking, err := h.service.GetBooking(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "booking_id", id).WarnContext(r.Context(), "booking lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, failureMessages{notFound: msgBookingNotFound, failed: msgInternal})
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, booking)
}

// Create books a resource. Overlapping slots are answered with 409 only when
// the service is configured to reject them.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req bookingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	logger := h.log(r.Context(), "Create", "user_id", req.UserID, "resource_id", req.ResourceID)

	booking, err := h.service.CreateBooking(r.Context(), application.CreateBookingParams{
		UserID:     req.UserID,
		ResourceID: req.ResourceID,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "booking creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, failureMessages{notFound: "Resource or User not found", failed: "Failed to create booking"})
		return
	}

	logger.With("booking_id", booking.ID).InfoContext(r.Context(), "booking created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, booking)
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := pathID(r, "id")
	logger := h.log(r.Context(), "Update", "booking_id", id)

	patch, err := decodePatch(r)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to decode booking patch", "error", err, "error_kind", "bad_request")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	booking, err := h.service.UpdateBooking(r.Context(), id, patch)
	if err != nil {
		logger.ErrorContext(r.Context(), "booking update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, failureMessages{notFound: msgBookingNotFound, failed: "Failed to update booking"})
		return
	}

	logger.InfoContext(r.Context(), "booking updated", "field_count", len(patch))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, booking)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := pathID(r, "id")
	logger := h.log(r.Context(), "Cancel", "booking_id", id)

	booking, err := h.service.CancelBooking(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "booking cancellation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, failureMessages{notFound: msgBookingNotFound, failed: "Failed to cancel booking"})
		return
	}

	logger.InfoContext(r.Context(), "booking cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, cancelResponse{Success: true, Message: "Booking cancelled", Booking: booking})
}

type bookingRequest struct {
	UserID     persistence.ID `json:"userId"`
	ResourceID persistence.ID `json:"resourceId"`
	Date       string         `json:"date"`
	StartTime  string         `json:"startTime"`
	EndTime    string         `json:"endTime"`
}

type cancelResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Booking persistence.Booking `json:"booking"`
}
