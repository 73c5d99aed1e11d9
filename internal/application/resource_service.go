package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/campus-booking/internal/persistence"
)

// ResourceService manages the catalogue of bookable resources.
type ResourceService struct {
	store       persistence.DocumentStore
	idGenerator func() string
	logger      *slog.Logger
}

// NewResourceService constructs a resource service with the provided dependencies.
func NewResourceService(store persistence.DocumentStore, idGenerator func() string) *ResourceService {
	return NewResourceServiceWithLogger(store, idGenerator, nil)
}

// NewResourceServiceWithLogger constructs a resource service with a specified logger.
func NewResourceServiceWithLogger(store persistence.DocumentStore, idGenerator func() string, logger *slog.Logger) *ResourceService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &ResourceService{store: store, idGenerator: idGenerator, logger: defaultLogger(logger)}
}

func (s *ResourceService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ResourceService", operation, attrs...)
}

// ListResources returns every resource in storage order.
func (s *ResourceService) ListResources(ctx context.Context) ([]persistence.Resource, error) {
	doc, err := loadDocument(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return doc.Resources, nil
}

// GetResource returns the resource with the given id.
func (s *ResourceService) GetResource(ctx context.Context, id persistence.ID) (persistence.Resource, error) {
	doc, err := loadDocument(ctx, s.store)
	if err != nil {
		return persistence.Resource{}, err
	}
	resource, _, ok := persistence.FindResource(doc, id)
	if !ok {
		return persistence.Resource{}, ErrNotFound
	}
	return resource, nil
}

// ResourcesByType returns resources whose type contains query, ignoring case.
func (s *ResourceService) ResourcesByType(ctx context.Context, query string) ([]persistence.Resource, error) {
	doc, err := loadDocument(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return persistence.ResourcesByType(doc, query), nil
}

// CreateResource stores a new resource under a fresh id.
func (s *ResourceService) CreateResource(ctx context.Context, input persistence.Resource) (resource persistence.Resource, err error) {
	if s == nil {
		err = fmt.Errorf("ResourceService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateResource", "name", input.Name)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create resource", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("resource_id", resource.ID).InfoContext(ctx, "resource created")
	}()

	record := input
	record.ID = persistence.ID(s.idGenerator())
	if record.Facilities == nil {
		record.Facilities = []string{}
	}

	if err = appendRecord(ctx, s.store, resourcesCollection, record); err != nil {
		return
	}
	resource = record
	return
}

// UpdateResource merges the patch onto the stored resource. Bookings keep
// the resource name and type they captured when they were made.
func (s *ResourceService) UpdateResource(ctx context.Context, id persistence.ID, patch persistence.Patch) (resource persistence.Resource, err error) {
	if s == nil {
		err = fmt.Errorf("ResourceService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateResource", "resource_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update resource", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "resource updated")
	}()

	resource, err = replaceRecord(ctx, s.store, resourcesCollection, id, func(existing persistence.Resource) (persistence.Resource, error) {
		merged, err := mergePatch(existing, patch)
		if err != nil {
			return existing, err
		}
		if merged.Facilities == nil {
			merged.Facilities = []string{}
		}
		return merged, nil
	})
	return
}

// DeleteResource removes the resource. Bookings that reference it are kept.
func (s *ResourceService) DeleteResource(ctx context.Context, id persistence.ID) (err error) {
	if s == nil {
		return fmt.Errorf("ResourceService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteResource", "resource_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete resource", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "resource deleted")
	}()

	_, err = removeRecord(ctx, s.store, resourcesCollection, id)
	return
}
