package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/campus-booking/internal/application"
	"github.com/example/campus-booking/internal/persistence"
)

const msgResourceNotFound = "Resource not found"

type resourceService interface {
	ListResources(ctx context.Context) ([]persistence.Resource, error)
	GetResource(ctx context.Context, id persistence.ID) (persistence.Resource, error)
	ResourcesByType(ctx context.Context, query string) ([]persistence.Resource, error)
	CreateResource(ctx context.Context, input persistence.Resource) (persistence.Resource, error)
	UpdateResource(ctx context.Context, id persistence.ID, patch persistence.Patch) (persistence.Resource, error)
	DeleteResource(ctx context.Context, id persistence.ID) error
}

type ResourceHandler struct {
	service   resourceService
	responder responder
	logger    *slog.Logger
}

func NewResourceHandler(service resourceService, logger *slog.Logger) *ResourceHandler {
	base := defaultLogger(logger)
	return &ResourceHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ResourceHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ResourceHandler", operation, attrs...)
}

func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resources, err := h.service.ListResources(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "failed to list resources", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, failureMessages{notFound: msgResourceNotFound, failed: msgInternal})
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resources)
}

func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := pathID(r, "id")
	resource, err := h.service.GetResource(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "resource_id", id).WarnContext(r.Context(), "resource lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, failureMessages{notFound: msgResourceNotFound, failed: msgInternal})
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resource)
}

// ByType lists resources whose type contains the path segment, ignoring case.
func (h *ResourceHandler) ByType(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := strings.TrimSpace(chi.URLParam(r, "type"))
	resources, err := h.service.ResourcesByType(r.Context(), query)
	if err != nil {
		h.log(r.Context(), "ByType", "type", query).ErrorContext(r.Context(), "failed to filter resources", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, failureMessages{notFound: msgResourceNotFound, failed: msgInternal})
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resources)
}

func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req persistence.Resource
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode resource request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	logger := h.log(r.Context(), "Create", "name", req.Name)

	resource, err := h.service.CreateResource(r.Context(), req)
	if err != nil {
		logger.ErrorContext(r.Context(), "resource creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, failureMessages{notFound: msgResourceNotFound, failed: "Failed to create resource"})
		return
	}

	logger.With("resource_id", resource.ID).InfoContext(r.Context(), "resource created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, resource)
}

func (h *ResourceHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := pathID(r, "id")
	logger := h.log(r.Context(), "Update", "resource_id", id)

	patch, err := decodePatch(r)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to decode resource patch", "error", err, "error_kind", "bad_request")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	resource, err := h.service.UpdateResource(r.Context(), id, patch)
	if err != nil {
		logger.ErrorContext(r.Context(), "resource update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, failureMessages{notFound: msgResourceNotFound, failed: "Failed to update resource"})
		return
	}

	logger.InfoContext(r.Context(), "resource updated", "field_count", len(patch))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resource)
}

func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := pathID(r, "id")
	logger := h.log(r.Context(), "Delete", "resource_id", id)

	if err := h.service.DeleteResource(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "resource deletion failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, failureMessages{notFound: msgResourceNotFound, failed: "Failed to delete resource"})
		return
	}

	logger.InfoContext(r.Context(), "resource deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true, Message: "Resource deleted"})
}
