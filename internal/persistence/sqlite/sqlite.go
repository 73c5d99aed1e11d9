// Package sqlite stores the document as a single versioned row in a SQLite
// database using the pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/campus-booking/internal/persistence"
)

// Store implements persistence.DocumentStore. Every write bumps the row
// version; Update only commits when the version it read is still current.
type Store struct {
	// writeMu serializes writers within this process; the version check
	// covers writers in other processes.
	writeMu sync.Mutex
	db      *sql.DB
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
}

var _ persistence.DocumentStore = (*Store)(nil)

// Open connects to the database and applies migrations.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	store := &Store{
		db:     db,
		cfg:    cfg,
		logger: logger.With("store", "sqlite", "dsn", cfg.DSN),
		now:    time.Now,
	}

	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Load returns the stored document. Missing rows, unreadable rows and query
// failures all yield an empty document; only context cancellation is an error.
func (s *Store) Load(ctx context.Context) (persistence.Document, error) {
	if err := ctx.Err(); err != nil {
		return persistence.Document{}, err
	}

	doc, _, err := readDocument(ctx, s.db)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return persistence.Document{}, ctxErr
		}
		s.logger.Warn("document unreadable, using empty document", "error", err)
		return persistence.EmptyDocument(), nil
	}
	return doc, nil
}

// Save replaces the stored document unconditionally.
func (s *Store) Save(ctx context.Context, doc persistence.Document) error {
	body, err := persistence.EncodeDocument(doc)
	if err != nil {
		return fmt.Errorf("%w: encode document: %v", persistence.ErrWriteFailed, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err = withRetry(ctx, s.cfg.Retry, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO documents (id, version, body, updated_at) VALUES (1, 1, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				version = documents.version + 1,
				body = excluded.body,
				updated_at = excluded.updated_at`,
			string(body), s.timestamp())
		return err
	})
	if err != nil {
		s.logger.Error("save document failed", "error", err)
		return fmt.Errorf("%w: %v", persistence.ErrWriteFailed, err)
	}
	return nil
}

// Update reads the document with its version, applies mutate and writes the
// result only if no other writer committed in between. Conflicts are retried
// with backoff.
func (s *Store) Update(ctx context.Context, mutate func(doc *persistence.Document) error) (persistence.Document, error) {
	var result persistence.Document
	var mutateErr error

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := withRetry(ctx, s.cfg.Retry, func() error {
		return withTransaction(ctx, s.db, func(tx *sql.Tx) error {
			doc, version, err := readDocument(ctx, tx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Warn("document unreadable, using empty document", "error", err)
				doc = persistence.EmptyDocument()
			}

			if err := mutate(&doc); err != nil {
				mutateErr = err
				return err
			}

			if err := writeVersioned(ctx, tx, doc, version, s.timestamp()); err != nil {
				return err
			}
			result = doc
			return nil
		})
	})

	switch {
	case err == nil:
		return result, nil
	case mutateErr != nil:
		return persistence.Document{}, mutateErr
	case ctx.Err() != nil:
		return persistence.Document{}, ctx.Err()
	default:
		s.logger.Error("update document failed", "error", err)
		return persistence.Document{}, fmt.Errorf("%w: %v", persistence.ErrWriteFailed, err)
	}
}

// Exists reports whether a document row has ever been written.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE id = 1`).Scan(&count); err != nil {
		return false, fmt.Errorf("sqlite: count documents: %w", err)
	}
	return count > 0, nil
}

// Version returns the current document version, or zero before the first write.
func (s *Store) Version(ctx context.Context) (int64, error) {
	var version int64
	err := s.db.QueryRowContext(ctx, `SELECT version FROM documents WHERE id = 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("sqlite: read version: %w", err)
	}
	return version, nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func readDocument(ctx context.Context, q queryer) (persistence.Document, int64, error) {
	var (
		version int64
		body    string
	)
	err := q.QueryRowContext(ctx, `SELECT version, body FROM documents WHERE id = 1`).Scan(&version, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.EmptyDocument(), 0, nil
	}
	if err != nil {
		return persistence.Document{}, 0, err
	}

	doc, err := persistence.DecodeDocument([]byte(body))
	if err != nil {
		return persistence.Document{}, version, fmt.Errorf("decode document version %d: %w", version, err)
	}
	return doc, version, nil
}

func writeVersioned(ctx context.Context, tx *sql.Tx, doc persistence.Document, version int64, updatedAt string) error {
	body, err := persistence.EncodeDocument(doc)
	if err != nil {
		return err
	}

	if version == 0 {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO documents (id, version, body, updated_at) VALUES (1, 1, ?, ?) ON CONFLICT(id) DO NOTHING`,
			string(body), updatedAt)
		if err != nil {
			return err
		}
		return expectOneRow(res)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE documents SET version = version + 1, body = ?, updated_at = ? WHERE id = 1 AND version = ?`,
		string(body), updatedAt, version)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected != 1 {
		return persistence.ErrVersionConflict
	}
	return nil
}
