// Package jsonfile stores the whole document as a single pretty-printed JSON
// file on local disk.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/example/campus-booking/internal/persistence"
)

// DefaultPath is the file used when no path is configured.
const DefaultPath = "data.json"

// Store persists the document to a JSON file. A process-wide mutex makes
// Update a single-writer unit; writes go to a temporary file that is renamed
// over the target so readers never observe a partial document.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

var _ persistence.DocumentStore = (*Store)(nil)

// Open returns a store backed by the file at path. The file is not created
// until the first write.
func Open(path string, logger *slog.Logger) *Store {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		logger: logger.With("store", "jsonfile", "path", path),
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the document. A missing, unreadable or corrupt file yields an
// empty document and a warning.
func (s *Store) Load(ctx context.Context) (persistence.Document, error) {
	if err := ctx.Err(); err != nil {
		return persistence.Document{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(), nil
}

// Save replaces the document on disk.
func (s *Store) Save(ctx context.Context, doc persistence.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(doc)
}

// Update loads the document, applies mutate and writes the result while
// holding the store lock.
func (s *Store) Update(ctx context.Context, mutate func(doc *persistence.Document) error) (persistence.Document, error) {
	if err := ctx.Err(); err != nil {
		return persistence.Document{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.loadLocked()
	if err := mutate(&doc); err != nil {
		return persistence.Document{}, err
	}
	if err := s.writeLocked(doc); err != nil {
		return persistence.Document{}, err
	}
	return doc, nil
}

// Exists reports whether the backing file is present.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(s.path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("jsonfile: stat %s: %w", s.path, err)
	}
}

// Close is a no-op; the file is not held open between calls.
func (s *Store) Close() error {
	return nil
}

func (s *Store) loadLocked() persistence.Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("data file unreadable, using empty document", "error", err)
		}
		return persistence.EmptyDocument()
	}

	doc, err := persistence.DecodeDocument(data)
	if err != nil {
		s.logger.Warn("data file corrupt, using empty document", "error", err)
		return persistence.EmptyDocument()
	}
	return doc
}

func (s *Store) writeLocked(doc persistence.Document) error {
	data, err := persistence.EncodeDocument(doc)
	if err != nil {
		return fmt.Errorf("%w: encode document: %v", persistence.ErrWriteFailed, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		s.logger.Error("create temp file failed", "error", err)
		return fmt.Errorf("%w: %v", persistence.ErrWriteFailed, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		s.logger.Error("write data file failed", "error", err)
		return fmt.Errorf("%w: %v", persistence.ErrWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		s.logger.Error("close temp file failed", "error", err)
		return fmt.Errorf("%w: %v", persistence.ErrWriteFailed, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		s.logger.Error("replace data file failed", "error", err)
		return fmt.Errorf("%w: %v", persistence.ErrWriteFailed, err)
	}
	return nil
}
