package application

import (
	"context"
	"fmt"

	"github.com/example/campus-booking/internal/persistence"
)

// collection selects one slice of the document along with the id accessor
// for its records, so the shared update and remove paths can operate on
// users, resources and bookings alike.
type collection[T any] struct {
	items func(doc *persistence.Document) *[]T
	id    func(record T) persistence.ID
}

var (
	usersCollection = collection[persistence.User]{
		items: func(doc *persistence.Document) *[]persistence.User { return &doc.Users },
		id:    func(u persistence.User) persistence.ID { return u.ID },
	}
	resourcesCollection = collection[persistence.Resource]{
		items: func(doc *persistence.Document) *[]persistence.Resource { return &doc.Resources },
		id:    func(r persistence.Resource) persistence.ID { return r.ID },
	}
	bookingsCollection = collection[persistence.Booking]{
		items: func(doc *persistence.Document) *[]persistence.Booking { return &doc.Bookings },
		id:    func(b persistence.Booking) persistence.ID { return b.ID },
	}
)

func loadDocument(ctx context.Context, store persistence.DocumentStore) (persistence.Document, error) {
	if store == nil {
		return persistence.Document{}, fmt.Errorf("%w: store not configured", ErrStoreUnavailable)
	}
	doc, err := store.Load(ctx)
	if err != nil {
		return persistence.Document{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return doc, nil
}

func indexOf[T any](c collection[T], doc *persistence.Document, id persistence.ID) int {
	for i, record := range *c.items(doc) {
		if c.id(record) == id {
			return i
		}
	}
	return -1
}

// appendRecord stores record at the end of the collection.
func appendRecord[T any](ctx context.Context, store persistence.DocumentStore, c collection[T], record T) error {
	if store == nil {
		return fmt.Errorf("%w: store not configured", ErrStoreUnavailable)
	}
	_, err := store.Update(ctx, func(doc *persistence.Document) error {
		items := c.items(doc)
		*items = append(*items, record)
		return nil
	})
	return err
}

// replaceRecord applies change to the record with the given id and stores the
// result in place.
func replaceRecord[T any](ctx context.Context, store persistence.DocumentStore, c collection[T], id persistence.ID, change func(T) (T, error)) (T, error) {
	var updated T
	if store == nil {
		return updated, fmt.Errorf("%w: store not configured", ErrStoreUnavailable)
	}
	_, err := store.Update(ctx, func(doc *persistence.Document) error {
		idx := indexOf(c, doc, id)
		if idx < 0 {
			return ErrNotFound
		}
		items := *c.items(doc)
		next, err := change(items[idx])
		if err != nil {
			return err
		}
		items[idx] = next
		updated = next
		return nil
	})
	return updated, err
}

// removeRecord deletes the record with the given id and returns it.
func removeRecord[T any](ctx context.Context, store persistence.DocumentStore, c collection[T], id persistence.ID) (T, error) {
	var removed T
	if store == nil {
		return removed, fmt.Errorf("%w: store not configured", ErrStoreUnavailable)
	}
	_, err := store.Update(ctx, func(doc *persistence.Document) error {
		idx := indexOf(c, doc, id)
		if idx < 0 {
			return ErrNotFound
		}
		items := c.items(doc)
		removed = (*items)[idx]
		*items = append((*items)[:idx], (*items)[idx+1:]...)
		return nil
	})
	return removed, err
}

// mergePatch applies a partial update. A field whose JSON type does not fit
// the record is reported as ErrInvalidInput.
func mergePatch[T any](record T, patch persistence.Patch) (T, error) {
	merged, err := persistence.Merge(record, patch)
	if err != nil {
		return record, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return merged, nil
}
