package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/campus-booking/internal/persistence"
)

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(userID, registrationNumber string) (token string, expiresAt time.Time, err error)
	Verify(token string) (userID string, expiresAt time.Time, err error)
}

// AuthService coordinates login and session validation.
type AuthService struct {
	store          persistence.DocumentStore
	tokens         TokenIssuer
	verifyPassword PasswordVerifier
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(store persistence.DocumentStore, tokens TokenIssuer, verify PasswordVerifier) *AuthService {
	return NewAuthServiceWithLogger(store, tokens, verify, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a specified logger.
func NewAuthServiceWithLogger(store persistence.DocumentStore, tokens TokenIssuer, verify PasswordVerifier, logger *slog.Logger) *AuthService {
	if verify == nil {
		verify = VerifyStoredPassword
	}
	return &AuthService{
		store:          store,
		tokens:         tokens,
		verifyPassword: verify,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Login returns the first user whose registration number matches exactly and
// whose password verifies. Unknown registration numbers and wrong passwords
// produce the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, params LoginParams) (result LoginResult, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}

	logger := s.loggerWith(ctx, "Login",
		"registration_number", params.RegistrationNumber,
	)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", result.User.ID).InfoContext(ctx, "login succeeded")
	}()

	var doc persistence.Document
	doc, err = loadDocument(ctx, s.store)
	if err != nil {
		return
	}

	user, ok := persistence.FindUserByCredentials(doc, params.RegistrationNumber, func(candidate persistence.User) bool {
		return s.verifyPassword(candidate.Password, params.Password) == nil
	})
	if !ok {
		err = ErrInvalidCredentials
		return
	}

	result.User = publicUser(user)
	if s.tokens != nil {
		result.Token, result.ExpiresAt, err = s.tokens.Issue(user.ID.String(), user.RegistrationNumber)
		if err != nil {
			err = fmt.Errorf("issue session token: %w", err)
			return
		}
	}
	return
}

// ValidateSession resolves a bearer token to the user it was issued for. A
// token whose user has since been deleted is rejected.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (principal Principal, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if s.tokens == nil {
		err = fmt.Errorf("token issuer not configured")
		return
	}

	token = strings.TrimSpace(token)
	if token == "" {
		err = ErrUnauthorized
		return
	}

	userID, expiresAt, verifyErr := s.tokens.Verify(token)
	if verifyErr != nil {
		s.loggerWith(ctx, "ValidateSession").DebugContext(ctx, "session token rejected", "error", verifyErr)
		err = ErrUnauthorized
		return
	}

	var doc persistence.Document
	doc, err = loadDocument(ctx, s.store)
	if err != nil {
		return
	}

	user, _, ok := persistence.FindUser(doc, persistence.ID(userID))
	if !ok {
		err = fmt.Errorf("%w: user %s no longer exists", ErrUnauthorized, userID)
		return
	}

	principal = Principal{User: publicUser(user), ExpiresAt: expiresAt}
	return
}
