package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/example/campus-booking/internal/application"
	"github.com/example/campus-booking/internal/persistence"
)

func TestHandlerLoggerAttributes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		principal     *application.Principal
		wantPrincipal any
	}{
		{name: "anonymous request", wantPrincipal: nil},
		{name: "signed-in request", principal: &application.Principal{User: persistence.User{ID: "u-7"}}, wantPrincipal: "u-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			ctx := ContextWithLogger(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
			if tt.principal != nil {
				ctx = ContextWithPrincipal(ctx, *tt.principal)
			}

			handlerLogger(ctx, nil, "SessionHandler", "Bookings", "booking_id", "b-1").InfoContext(ctx, "served")

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("failed to decode log entry %q: %v", buf.String(), err)
			}
			if entry["handler"] != "SessionHandler" || entry["operation"] != "Bookings" || entry["booking_id"] != "b-1" {
				t.Fatalf("unexpected entry: %v", entry)
			}
			if entry["principal_id"] != tt.wantPrincipal {
				t.Fatalf("expected principal_id %v, got %v", tt.wantPrincipal, entry["principal_id"])
			}
		})
	}
}
