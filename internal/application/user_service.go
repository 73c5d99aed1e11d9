package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/campus-booking/internal/persistence"
)

// UserService manages registered accounts. Passwords are hashed on the way
// in and stripped from every user it returns.
type UserService struct {
	store        persistence.DocumentStore
	idGenerator  func() string
	hashPassword PasswordHasher
	logger       *slog.Logger
}

// NewUserService wires dependencies for the user service.
func NewUserService(store persistence.DocumentStore, idGenerator func() string, hash PasswordHasher) *UserService {
	return NewUserServiceWithLogger(store, idGenerator, hash, nil)
}

// NewUserServiceWithLogger constructs a user service with a specified logger.
func NewUserServiceWithLogger(store persistence.DocumentStore, idGenerator func() string, hash PasswordHasher, logger *slog.Logger) *UserService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if hash == nil {
		hash = HashPassword
	}
	return &UserService{store: store, idGenerator: idGenerator, hashPassword: hash, logger: defaultLogger(logger)}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

// ListUsers returns every user in storage order.
func (s *UserService) ListUsers(ctx context.Context) ([]persistence.User, error) {
	doc, err := loadDocument(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return publicUsers(doc.Users), nil
}

// GetUser returns the user with the given id.
func (s *UserService) GetUser(ctx context.Context, id persistence.ID) (persistence.User, error) {
	doc, err := loadDocument(ctx, s.store)
	if err != nil {
		return persistence.User{}, err
	}
	user, _, ok := persistence.FindUser(doc, id)
	if !ok {
		return persistence.User{}, ErrNotFound
	}
	return publicUser(user), nil
}

// Register stores a new user under a fresh id. Registration numbers are not
// checked for uniqueness and no field is validated.
func (s *UserService) Register(ctx context.Context, input persistence.User) (user persistence.User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}

	logger := s.loggerWith(ctx, "Register",
		"registration_number", input.RegistrationNumber,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to register user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", user.ID).InfoContext(ctx, "user registered")
	}()

	record := input
	record.ID = persistence.ID(s.idGenerator())
	record.Password, err = s.hashPassword(input.Password)
	if err != nil {
		err = fmt.Errorf("hash password: %w", err)
		return
	}

	if err = appendRecord(ctx, s.store, usersCollection, record); err != nil {
		return
	}

	user = publicUser(record)
	return
}

// UpdateUser merges the patch onto the stored user. A new password in the
// patch is hashed before it is stored.
func (s *UserService) UpdateUser(ctx context.Context, id persistence.ID, patch persistence.Patch) (user persistence.User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateUser", "user_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user updated")
	}()

	var hashed string
	password, hasPassword := patch.String("password")
	if hasPassword {
		if hashed, err = s.hashPassword(password); err != nil {
			err = fmt.Errorf("hash password: %w", err)
			return
		}
	}

	var updated persistence.User
	updated, err = replaceRecord(ctx, s.store, usersCollection, id, func(existing persistence.User) (persistence.User, error) {
		merged, err := mergePatch(existing, patch)
		if err != nil {
			return existing, err
		}
		if hasPassword {
			merged.Password = hashed
		} else {
			merged.Password = existing.Password
		}
		return merged, nil
	})
	if err != nil {
		return
	}

	user = publicUser(updated)
	return
}

// DeleteUser removes the user. Bookings that reference the user are kept.
func (s *UserService) DeleteUser(ctx context.Context, id persistence.ID) (err error) {
	if s == nil {
		return fmt.Errorf("UserService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteUser", "user_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user deleted")
	}()

	_, err = removeRecord(ctx, s.store, usersCollection, id)
	return
}
