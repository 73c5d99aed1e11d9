package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable through CAMPUS_STORE_BACKEND.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config captures environment driven configuration values for the booking service.
type Config struct {
	HTTPPort              int
	StoreBackend          string
	DataFile              string
	SQLitePath            string
	SessionSecret         string
	SessionTTL            time.Duration
	RejectOverlapBookings bool
	CORSOrigins           []string
	LogLevel              slog.Level
}

// LoadDotEnv reads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored. With no arguments ".env" is used.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to defaults. Missing and malformed entries are
// collected and reported together.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:     3000,
		StoreBackend: BackendJSON,
		DataFile:     "data.json",
		SQLitePath:   "campus.db",
		SessionTTL:   24 * time.Hour,
		CORSOrigins:  []string{"*"},
		LogLevel:     slog.LevelInfo,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := lookup("CAMPUS_HTTP_PORT"); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "CAMPUS_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if backend := strings.ToLower(lookup("CAMPUS_STORE_BACKEND")); backend != "" {
		switch backend {
		case BackendJSON, BackendSQLite:
			cfg.StoreBackend = backend
		default:
			invalid = append(invalid, "CAMPUS_STORE_BACKEND")
		}
	}

	if path := lookup("CAMPUS_DATA_FILE"); path != "" {
		cfg.DataFile = path
	}
	if path := lookup("CAMPUS_SQLITE_PATH"); path != "" {
		cfg.SQLitePath = path
	}

	if secret := lookup("CAMPUS_SESSION_SECRET"); secret == "" {
		missing = append(missing, "CAMPUS_SESSION_SECRET")
	} else {
		cfg.SessionSecret = secret
	}

	if ttlValue := lookup("CAMPUS_SESSION_TTL"); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "CAMPUS_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if rejectValue := lookup("CAMPUS_REJECT_OVERLAPPING_BOOKINGS"); rejectValue != "" {
		reject, err := strconv.ParseBool(rejectValue)
		if err != nil {
			invalid = append(invalid, "CAMPUS_REJECT_OVERLAPPING_BOOKINGS")
		} else {
			cfg.RejectOverlapBookings = reject
		}
	}

	if originsValue := lookup("CAMPUS_CORS_ORIGINS"); originsValue != "" {
		origins := make([]string, 0, 2)
		for _, origin := range strings.Split(originsValue, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		if len(origins) == 0 {
			invalid = append(invalid, "CAMPUS_CORS_ORIGINS")
		} else {
			cfg.CORSOrigins = origins
		}
	}

	if levelValue := lookup("CAMPUS_LOG_LEVEL"); levelValue != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(levelValue)); err != nil {
			invalid = append(invalid, "CAMPUS_LOG_LEVEL")
		} else {
			cfg.LogLevel = level
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func lookup(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
