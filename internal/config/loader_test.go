package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

var allKeys = []string{
	"CAMPUS_HTTP_PORT",
	"CAMPUS_STORE_BACKEND",
	"CAMPUS_DATA_FILE",
	"CAMPUS_SQLITE_PATH",
	"CAMPUS_SESSION_SECRET",
	"CAMPUS_SESSION_TTL",
	"CAMPUS_REJECT_OVERLAPPING_BOOKINGS",
	"CAMPUS_CORS_ORIGINS",
	"CAMPUS_LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		// Setenv registers the restore; Unsetenv then clears it for this test.
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnv(t)

		const secret = "super-secret"
		t.Setenv("CAMPUS_SESSION_SECRET", secret)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 3000 {
			t.Fatalf("expected default HTTP port 3000, got %d", cfg.HTTPPort)
		}
		if cfg.StoreBackend != BackendJSON || cfg.DataFile != "data.json" || cfg.SQLitePath != "campus.db" {
			t.Fatalf("unexpected store defaults: %+v", cfg)
		}
		if cfg.SessionSecret != secret {
			t.Fatalf("expected session secret to be %q, got %q", secret, cfg.SessionSecret)
		}
		if cfg.SessionTTL != 24*time.Hour || cfg.RejectOverlapBookings {
			t.Fatalf("unexpected session or booking defaults: %+v", cfg)
		}
		if !reflect.DeepEqual(cfg.CORSOrigins, []string{"*"}) || cfg.LogLevel != slog.LevelInfo {
			t.Fatalf("unexpected ambient defaults: %+v", cfg)
		}
		if cfg.Addr() != ":3000" {
			t.Fatalf("unexpected addr %q", cfg.Addr())
		}
	})

	t.Run("errors when required values are missing", func(t *testing.T) {
		clearEnv(t)

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error when required values are missing")
		}
		expected := "missing required environment variables: CAMPUS_SESSION_SECRET"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("parses every field", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CAMPUS_SESSION_SECRET", "secret-value")
		t.Setenv("CAMPUS_HTTP_PORT", "9090")
		t.Setenv("CAMPUS_STORE_BACKEND", "SQLite")
		t.Setenv("CAMPUS_SQLITE_PATH", "/tmp/campus.db")
		t.Setenv("CAMPUS_SESSION_TTL", "90m")
		t.Setenv("CAMPUS_REJECT_OVERLAPPING_BOOKINGS", "true")
		t.Setenv("CAMPUS_CORS_ORIGINS", "http://a.test, http://b.test,")
		t.Setenv("CAMPUS_LOG_LEVEL", "debug")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 || cfg.StoreBackend != BackendSQLite || cfg.SQLitePath != "/tmp/campus.db" {
			t.Fatalf("unexpected store config: %+v", cfg)
		}
		if cfg.SessionTTL != 90*time.Minute || !cfg.RejectOverlapBookings {
			t.Fatalf("unexpected session config: %+v", cfg)
		}
		if !reflect.DeepEqual(cfg.CORSOrigins, []string{"http://a.test", "http://b.test"}) {
			t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
		}
		if cfg.LogLevel != slog.LevelDebug {
			t.Fatalf("expected debug level, got %v", cfg.LogLevel)
		}
	})

	t.Run("reports every invalid key", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CAMPUS_SESSION_SECRET", "secret-value")
		t.Setenv("CAMPUS_HTTP_PORT", "http")
		t.Setenv("CAMPUS_STORE_BACKEND", "postgres")
		t.Setenv("CAMPUS_SESSION_TTL", "-1h")
		t.Setenv("CAMPUS_REJECT_OVERLAPPING_BOOKINGS", "maybe")
		t.Setenv("CAMPUS_LOG_LEVEL", "loud")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error for invalid values")
		}
		expected := "invalid environment variables: CAMPUS_HTTP_PORT, CAMPUS_STORE_BACKEND, CAMPUS_SESSION_TTL, CAMPUS_REJECT_OVERLAPPING_BOOKINGS, CAMPUS_LOG_LEVEL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "CAMPUS_SESSION_SECRET=from-file\nCAMPUS_HTTP_PORT=4000\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Setenv("CAMPUS_HTTP_PORT", "5000")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv returned error: %v", err)
	}
	// godotenv.Load writes through os.Setenv; clearEnv already registered restores.

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SessionSecret != "from-file" {
		t.Fatalf("expected secret from file, got %q", cfg.SessionSecret)
	}
	if cfg.HTTPPort != 5000 {
		t.Fatalf("expected existing env to win, got %d", cfg.HTTPPort)
	}
}
