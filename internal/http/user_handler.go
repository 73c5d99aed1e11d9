package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/campus-booking/internal/application"
	"github.com/example/campus-booking/internal/persistence"
)

var userMessages = failureMessages{notFound: "User not found", failed: "Failed to create user"}

type userService interface {
	ListUsers(ctx context.Context) ([]persistence.User, error)
	GetUser(ctx context.Context, id persistence.ID) (persistence.User, error)
	Register(ctx context.Context, input persistence.User) (persistence.User, error)
	UpdateUser(ctx context.Context, id persistence.ID, patch persistence.Patch) (persistence.User, error)
	DeleteUser(ctx context.Context, id persistence.ID) error
}

type UserHandler struct {
	service   userService
	responder responder
	logger    *slog.Logger
}

func NewUserHandler(service userService, logger *slog.Logger) *UserHandler {
	base := defaultLogger(logger)
	return &UserHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *UserHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "UserHandler", operation, attrs...)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "failed to list users", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, failureMessages{notFound: userMessages.notFound, failed: msgInternal})
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := pathID(r, "id")
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "user_id", id).WarnContext(r.Context(), "user lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, failureMessages{notFound: userMessages.notFound, failed: msgInternal})
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, user)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req persistence.User
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode user request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	logger := h.log(r.Context(), "Create", "registration_number", req.RegistrationNumber)

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		logger.ErrorContext(r.Context(), "user creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, userMessages)
		return
	}

	logger.With("user_id", user.ID).InfoContext(r.Context(), "user created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := pathID(r, "id")
	logger := h.log(r.Context(), "Update", "user_id", id)

	patch, err := decodePatch(r)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to decode user patch", "error", err, "error_kind", "bad_request")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, patch)
	if err != nil {
		logger.ErrorContext(r.Context(), "user update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, failureMessages{notFound: userMessages.notFound, failed: "Failed to update user"})
		return
	}

	logger.InfoContext(r.Context(), "user updated", "field_count", len(patch))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := pathID(r, "id")
	logger := h.log(r.Context(), "Delete", "user_id", id)

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "user deletion failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, failureMessages{notFound: userMessages.notFound, failed: "Failed to delete user"})
		return
	}

	logger.InfoContext(r.Context(), "user deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true, Message: "User deleted"})
}

func pathID(r *http.Request, name string) persistence.ID {
	return persistence.ParseID(chi.URLParam(r, name))
}
