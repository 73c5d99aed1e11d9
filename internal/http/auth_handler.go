package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/campus-booking/internal/application"
	"github.com/example/campus-booking/internal/persistence"
)

const sessionCookieName = "session_token"

type authService interface {
	Login(ctx context.Context, params application.LoginParams) (application.LoginResult, error)
}

type AuthHandler struct {
	service   authService
	responder responder
	logger    *slog.Logger
}

func NewAuthHandler(service authService, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	return &AuthHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

// Login checks the submitted credentials. The response shape mirrors the
// legacy client contract: success flag plus user, with the session token
// added alongside.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "Login", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	logger := h.log(r.Context(), "Login", "registration_number", req.RegistrationNumber)

	result, err := h.service.Login(r.Context(), application.LoginParams{
		RegistrationNumber: req.RegistrationNumber,
		Password:           req.Password,
	})
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			logger.WarnContext(r.Context(), "authentication rejected", "error_kind", application.ErrorKind(err))
			h.responder.writeJSON(r.Context(), w, http.StatusUnauthorized, loginFailure{Success: false, Error: msgInvalidCredentials})
			return
		}
		logger.ErrorContext(r.Context(), "authentication failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.writeError(r.Context(), w, http.StatusInternalServerError, msgInternal)
		return
	}

	resp := loginResponse{Success: true, User: result.User, Token: result.Token}
	if result.Token != "" {
		setSessionCookie(w, result.Token, result.ExpiresAt)
		resp.ExpiresAt = result.ExpiresAt.UTC().Format(time.RFC3339)
	}

	logger.With("user_id", result.User.ID).InfoContext(r.Context(), "user authenticated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

type loginRequest struct {
	RegistrationNumber string `json:"registrationNumber"`
	Password           string `json:"password"`
}

type loginResponse struct {
	Success   bool             `json:"success"`
	User      persistence.User `json:"user"`
	Token     string           `json:"token,omitempty"`
	ExpiresAt string           `json:"expiresAt,omitempty"`
}

type loginFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    strings.TrimSpace(token),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	}
	if !expires.IsZero() {
		cookie.Expires = expires.UTC()
	}
	http.SetCookie(w, cookie)
}
