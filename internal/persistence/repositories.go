package persistence

import "context"

// DocumentStore persists the whole document. Load never fails because of a
// missing or corrupt backing file; it falls back to an empty document.
type DocumentStore interface {
	Load(ctx context.Context) (Document, error)
	Save(ctx context.Context, doc Document) error
	// Update runs load, mutate and save as a single writer. When mutate
	// returns an error nothing is written and that error is returned.
	Update(ctx context.Context, mutate func(doc *Document) error) (Document, error)
	// Exists reports whether the store has ever been written.
	Exists(ctx context.Context) (bool, error)
	Close() error
}
