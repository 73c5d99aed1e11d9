package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/campus-booking/internal/persistence"
)

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	expiry := time.Date(2025, 11, 21, 9, 0, 0, 0, time.UTC)
	newService := func() (*AuthService, *tokenStub) {
		doc := persistence.EmptyDocument()
		doc.Users = []persistence.User{
			{ID: "u-1", RegistrationNumber: "R100", FullName: "Asha", Password: "hashed:p"},
			{ID: "u-2", RegistrationNumber: "R200", FullName: "Legacy", Password: "hashed:legacy"},
		}
		tokens := newTokenStub(expiry)
		return NewAuthService(newMemoryStore(doc), tokens, plainVerify), tokens
	}

	t.Run("returns user without password and a token", func(t *testing.T) {
		t.Parallel()
		svc, tokens := newService()

		result, err := svc.Login(context.Background(), LoginParams{RegistrationNumber: "R100", Password: "p"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if result.User.ID != "u-1" || result.User.Password != "" {
			t.Fatalf("unexpected user %#v", result.User)
		}
		if result.Token == "" || tokens.issued[result.Token] != "u-1" {
			t.Fatalf("expected issued token, got %q", result.Token)
		}
		if !result.ExpiresAt.Equal(expiry) {
			t.Fatalf("unexpected expiry %v", result.ExpiresAt)
		}
	})

	cases := []struct {
		name   string
		params LoginParams
	}{
		{name: "unknown registration number", params: LoginParams{RegistrationNumber: "R999", Password: "p"}},
		{name: "wrong password", params: LoginParams{RegistrationNumber: "R100", Password: "x"}},
		{name: "case differs", params: LoginParams{RegistrationNumber: "r100", Password: "p"}},
		{name: "empty credentials", params: LoginParams{}},
		{name: "other user's password", params: LoginParams{RegistrationNumber: "R100", Password: "legacy"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc, _ := newService()

			result, err := svc.Login(context.Background(), tc.params)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
			if result.Token != "" || result.User.ID != "" {
				t.Fatalf("expected empty result, got %#v", result)
			}
		})
	}

	t.Run("accepts clear text passwords from older documents", func(t *testing.T) {
		t.Parallel()

		doc := persistence.EmptyDocument()
		doc.Users = []persistence.User{{ID: "u-1", RegistrationNumber: "R100", Password: "p"}}
		svc := NewAuthService(newMemoryStore(doc), newTokenStub(expiry), nil)

		if _, err := svc.Login(context.Background(), LoginParams{RegistrationNumber: "R100", Password: "p"}); err != nil {
			t.Fatalf("expected legacy login to succeed, got %v", err)
		}
	})

	t.Run("matches the first qualifying user", func(t *testing.T) {
		t.Parallel()

		doc := persistence.EmptyDocument()
		doc.Users = []persistence.User{
			{ID: "u-1", RegistrationNumber: "R100", Password: "hashed:a"},
			{ID: "u-2", RegistrationNumber: "R100", Password: "hashed:b"},
			{ID: "u-3", RegistrationNumber: "R100", Password: "hashed:b"},
		}
		svc := NewAuthService(newMemoryStore(doc), newTokenStub(expiry), plainVerify)

		result, err := svc.Login(context.Background(), LoginParams{RegistrationNumber: "R100", Password: "b"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if result.User.ID != "u-2" {
			t.Fatalf("expected u-2, got %s", result.User.ID)
		}
	})
}

func TestAuthService_ValidateSession(t *testing.T) {
	t.Parallel()

	expiry := time.Date(2025, 11, 21, 9, 0, 0, 0, time.UTC)
	doc := persistence.EmptyDocument()
	doc.Users = []persistence.User{{ID: "u-1", RegistrationNumber: "R100", FullName: "Asha", Password: "hashed:p"}}
	store := newMemoryStore(doc)
	tokens := newTokenStub(expiry)
	svc := NewAuthService(store, tokens, plainVerify)
	ctx := context.Background()

	result, err := svc.Login(ctx, LoginParams{RegistrationNumber: "R100", Password: "p"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	principal, err := svc.ValidateSession(ctx, result.Token)
	if err != nil {
		t.Fatalf("ValidateSession failed: %v", err)
	}
	if principal.User.ID != "u-1" || principal.User.Password != "" || !principal.ExpiresAt.Equal(expiry) {
		t.Fatalf("unexpected principal %#v", principal)
	}

	for _, token := range []string{"", "   ", "forged"} {
		if _, err := svc.ValidateSession(ctx, token); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized for %q, got %v", token, err)
		}
	}

	if _, err := store.Update(ctx, func(doc *persistence.Document) error {
		doc.Users = nil
		return nil
	}); err != nil {
		t.Fatalf("remove users: %v", err)
	}
	if _, err := svc.ValidateSession(ctx, result.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after user deletion, got %v", err)
	}
}
