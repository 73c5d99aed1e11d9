package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/campus-booking/internal/config"
	"github.com/example/campus-booking/internal/metrics"
	"github.com/example/campus-booking/internal/persistence"
)

func testConfig(t *testing.T, backend string) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		HTTPPort:      3000,
		StoreBackend:  backend,
		DataFile:      filepath.Join(dir, "data.json"),
		SQLitePath:    filepath.Join(dir, "campus.db"),
		SessionSecret: "main-test-secret",
		SessionTTL:    time.Hour,
		CORSOrigins:   []string{"*"},
		LogLevel:      slog.LevelInfo,
	}
}

func TestOpenStoreSeedsEachBackend(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, backend := range []string{config.BackendJSON, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			store, err := openStore(ctx, testConfig(t, backend), logger)
			if err != nil {
				t.Fatalf("openStore returned error: %v", err)
			}
			defer store.Close()

			seeded, err := persistence.Seed(ctx, store)
			if err != nil || !seeded {
				t.Fatalf("expected first seed to write, got seeded=%v err=%v", seeded, err)
			}
			seeded, err = persistence.Seed(ctx, store)
			if err != nil || seeded {
				t.Fatalf("expected second seed to be a no-op, got seeded=%v err=%v", seeded, err)
			}

			doc, err := store.Load(ctx)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if len(doc.Resources) != len(persistence.SeedResources()) {
				t.Fatalf("expected seeded resources, got %d", len(doc.Resources))
			}
		})
	}
}

func TestOpenStoreRejectsUnknownBackend(t *testing.T) {
	if _, err := openStore(context.Background(), testConfig(t, "postgres"), nil); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestNewHandlerServesAPIAndMetrics(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t, config.BackendJSON)

	store, err := openStore(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("openStore returned error: %v", err)
	}
	if _, err := persistence.Seed(context.Background(), store); err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}

	handler, err := newHandler(cfg, store, metrics.New(), logger, time.Now)
	if err != nil {
		t.Fatalf("newHandler returned error: %v", err)
	}

	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/resources")
	if err != nil {
		t.Fatalf("GET /api/resources failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected CORS header, got %q", got)
	}

	resp, err = http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `campus_booking_http_requests_total{method="GET",route="/api/resources`) {
		t.Fatalf("expected request counter for the resources route, got:\n%s", body)
	}
}

func TestNewHandlerRequiresSessionSecret(t *testing.T) {
	cfg := testConfig(t, config.BackendJSON)
	cfg.SessionSecret = ""

	if _, err := newHandler(cfg, nil, metrics.New(), nil, time.Now); err == nil {
		t.Fatal("expected error without a session secret")
	}
}
