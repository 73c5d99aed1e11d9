package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/campus-booking/internal/persistence"
	"github.com/example/campus-booking/internal/persistence/jsonfile"
	"github.com/example/campus-booking/internal/persistence/sqlite"
)

// StoreBackend names a DocumentStore implementation together with a
// constructor that opens a fresh, empty instance.
type StoreBackend struct {
	Name string
	Open func(tb testing.TB) persistence.DocumentStore
}

// StoreBackends lists every store implementation so behavioural tests can
// run the same table against each of them.
func StoreBackends() []StoreBackend {
	return []StoreBackend{
		{Name: "jsonfile", Open: func(tb testing.TB) persistence.DocumentStore { return NewJSONStore(tb) }},
		{Name: "sqlite", Open: func(tb testing.TB) persistence.DocumentStore { return NewSQLiteStore(tb) }},
	}
}

// NewJSONStore opens a JSON file store in a temporary directory.
func NewJSONStore(tb testing.TB) *jsonfile.Store {
	tb.Helper()

	store := jsonfile.Open(filepath.Join(tb.TempDir(), "data.json"), nil)
	tb.Cleanup(func() { _ = store.Close() })
	return store
}

// NewSQLiteStore opens a migrated SQLite store backed by a temporary file.
// The store is closed automatically when the test finishes.
func NewSQLiteStore(tb testing.TB) *sqlite.Store {
	tb.Helper()

	cfg := sqlite.DefaultConfig(filepath.Join(tb.TempDir(), "campus.db"))
	store, err := sqlite.Open(context.Background(), cfg, nil)
	if err != nil {
		tb.Fatalf("failed to open sqlite store: %v", err)
	}
	tb.Cleanup(func() { _ = store.Close() })
	return store
}

// SeedStore writes doc to store, failing the test on error.
func SeedStore(tb testing.TB, store persistence.DocumentStore, doc persistence.Document) {
	tb.Helper()

	if err := store.Save(context.Background(), doc); err != nil {
		tb.Fatalf("failed to seed store: %v", err)
	}
}
