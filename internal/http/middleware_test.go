package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/campus-booking/internal/application"
	"github.com/example/campus-booking/internal/persistence"
)

type sessionValidatorStub struct {
	principal application.Principal
	err       error
	gotToken  string
}

func (s *sessionValidatorStub) ValidateSession(_ context.Context, token string) (application.Principal, error) {
	s.gotToken = token
	return s.principal, s.err
}

func TestSessionMiddleware(t *testing.T) {
	t.Parallel()

	principal := application.Principal{User: persistence.User{ID: "u-1", FullName: "Ada"}}

	tests := []struct {
		name           string
		header         string
		cookie         *http.Cookie
		validatorErr   error
		expectedStatus int
		expectedToken  string
	}{
		{name: "missing credentials", expectedStatus: http.StatusUnauthorized},
		{name: "bearer header", header: "Bearer abc", expectedStatus: http.StatusOK, expectedToken: "abc"},
		{name: "lowercase scheme", header: "bearer  abc ", expectedStatus: http.StatusOK, expectedToken: "abc"},
		{name: "session cookie", cookie: &http.Cookie{Name: sessionCookieName, Value: "xyz"}, expectedStatus: http.StatusOK, expectedToken: "xyz"},
		{name: "non bearer scheme", header: "Basic abc", expectedStatus: http.StatusUnauthorized},
		{name: "rejected token", header: "Bearer abc", validatorErr: application.ErrUnauthorized, expectedStatus: http.StatusUnauthorized, expectedToken: "abc"},
		{name: "store failure", header: "Bearer abc", validatorErr: errors.New("disk gone"), expectedStatus: http.StatusInternalServerError, expectedToken: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			validator := &sessionValidatorStub{principal: principal, err: tt.validatorErr}
			var seen application.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = PrincipalFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			RequireSession(validator, nil)(next).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if validator.gotToken != tt.expectedToken {
				t.Fatalf("expected validator to see %q, got %q", tt.expectedToken, validator.gotToken)
			}
			if tt.expectedStatus == http.StatusOK && seen.User.ID != principal.User.ID {
				t.Fatalf("principal not propagated: %+v", seen)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		allowed         []string
		method          string
		origin          string
		wantStatus      int
		wantAllowed     string
		wantCredentials string
	}{
		{name: "wildcard answers with star", allowed: []string{"*"}, method: http.MethodGet, origin: "http://app.test", wantStatus: http.StatusOK, wantAllowed: "*"},
		{name: "wildcard without origin", allowed: []string{"*"}, method: http.MethodGet, wantStatus: http.StatusOK, wantAllowed: "*"},
		{name: "listed origin", allowed: []string{"http://a.test", "http://b.test"}, method: http.MethodGet, origin: "http://b.test", wantStatus: http.StatusOK, wantAllowed: "http://b.test", wantCredentials: "true"},
		{name: "listed origin beside wildcard", allowed: []string{"*", "http://a.test"}, method: http.MethodGet, origin: "http://a.test", wantStatus: http.StatusOK, wantAllowed: "http://a.test", wantCredentials: "true"},
		{name: "unlisted origin", allowed: []string{"http://a.test"}, method: http.MethodGet, origin: "http://evil.test", wantStatus: http.StatusOK},
		{name: "preflight", allowed: []string{"*"}, method: http.MethodOptions, origin: "http://app.test", wantStatus: http.StatusNoContent, wantAllowed: "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tt.method, "/api/session/bookings", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tt.allowed)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllowed {
				t.Fatalf("expected allow-origin %q, got %q", tt.wantAllowed, got)
			}
			if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCredentials {
				t.Fatalf("expected allow-credentials %q, got %q", tt.wantCredentials, got)
			}
			if tt.method == http.MethodOptions && called {
				t.Fatal("preflight must not reach the handler")
			}
		})
	}
}

func TestRequestLoggerStoresLoggerInContext(t *testing.T) {
	t.Parallel()

	var found bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		found = LoggerFromContext(r.Context()) != nil
	})

	RequestLogger(nil)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !found {
		t.Fatal("expected request logger in context")
	}
}
