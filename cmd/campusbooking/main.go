package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/campus-booking/internal/application"
	"github.com/example/campus-booking/internal/config"
	httptransport "github.com/example/campus-booking/internal/http"
	"github.com/example/campus-booking/internal/logging"
	"github.com/example/campus-booking/internal/metrics"
	"github.com/example/campus-booking/internal/persistence"
	"github.com/example/campus-booking/internal/persistence/jsonfile"
	"github.com/example/campus-booking/internal/persistence/sqlite"
	"github.com/example/campus-booking/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap := logging.New(os.Stdout, slog.LevelInfo)

	if err := config.LoadDotEnv(); err != nil {
		bootstrap.Error("failed to read .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		bootstrap.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	seeded, err := persistence.Seed(ctx, store)
	if err != nil {
		return fmt.Errorf("seed store: %w", err)
	}
	if seeded {
		logger.Info("seeded default resources", "backend", cfg.StoreBackend)
	}

	recorder := metrics.New()
	handler, err := newHandler(cfg, store, recorder, logger, time.Now)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("campus booking API listening", "addr", server.Addr, "backend", cfg.StoreBackend)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (persistence.DocumentStore, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		store, err := sqlite.Open(ctx, sqlite.DefaultConfig(cfg.SQLitePath), logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	case config.BackendJSON, "":
		return jsonfile.Open(cfg.DataFile, logger), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func newHandler(cfg config.Config, store persistence.DocumentStore, recorder *metrics.Recorder, logger *slog.Logger, now func() time.Time) (http.Handler, error) {
	tokens, err := session.NewIssuer(cfg.SessionSecret, cfg.SessionTTL, now)
	if err != nil {
		return nil, fmt.Errorf("configure session tokens: %w", err)
	}

	idGenerator := uuid.NewString

	userService := application.NewUserServiceWithLogger(store, idGenerator, nil, logger)
	authService := application.NewAuthServiceWithLogger(store, tokens, nil, logger)
	resourceService := application.NewResourceServiceWithLogger(store, idGenerator, logger)
	bookingService := application.NewBookingServiceWithLogger(store, idGenerator, now, application.BookingOptions{
		RejectOverlaps: cfg.RejectOverlapBookings,
		Observer:       recorder,
	}, logger)

	return httptransport.NewRouter(httptransport.RouterConfig{
		Auth:              httptransport.NewAuthHandler(authService, logger),
		Users:             httptransport.NewUserHandler(userService, logger),
		Resources:         httptransport.NewResourceHandler(resourceService, logger),
		Bookings:          httptransport.NewBookingHandler(bookingService, logger),
		Session:           httptransport.NewSessionHandler(bookingService, logger),
		Health:            httptransport.NewHealthHandler(store, logger),
		Metrics:           recorder.Handler(),
		SessionMiddleware: httptransport.RequireSession(authService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.CORS(cfg.CORSOrigins),
			recorder.Middleware,
		},
	}), nil
}
