package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/example/campus-booking/internal/persistence"
	"github.com/example/campus-booking/internal/scheduler"
)

const dateLayout = "2006-01-02"

// BookingOptions tunes booking behaviour.
type BookingOptions struct {
	// RejectOverlaps makes CreateBooking and UpdateBooking fail with
	// ErrConflict when the slot overlaps another booking of the same
	// resource. Overlaps are always logged and reported to the observer.
	RejectOverlaps bool
	Observer       BookingObserver
}

// BookingService creates, lists and cancels bookings.
type BookingService struct {
	store       persistence.DocumentStore
	idGenerator func() string
	now         func() time.Time
	options     BookingOptions
	logger      *slog.Logger
}

// NewBookingService constructs a booking service with the provided dependencies.
func NewBookingService(store persistence.DocumentStore, idGenerator func() string, now func() time.Time, options BookingOptions) *BookingService {
	return NewBookingServiceWithLogger(store, idGenerator, now, options, nil)
}

// NewBookingServiceWithLogger constructs a booking service with a specified logger.
func NewBookingServiceWithLogger(store persistence.DocumentStore, idGenerator func() string, now func() time.Time, options BookingOptions, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if options.Observer == nil {
		options.Observer = noopObserver{}
	}
	return &BookingService{
		store:       store,
		idGenerator: idGenerator,
		now:         now,
		options:     options,
		logger:      defaultLogger(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// ListBookings returns every booking in storage order.
func (s *BookingService) ListBookings(ctx context.Context) ([]persistence.Booking, error) {
	doc, err := loadDocument(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return doc.Bookings, nil
}

// GetBooking returns the booking with the given id.
func (s *BookingService) GetBooking(ctx context.Context, id persistence.ID) (persistence.Booking, error) {
	doc, err := loadDocument(ctx, s.store)
	if err != nil {
		return persistence.Booking{}, err
	}
	booking, _, ok := persistence.FindBooking(doc, id)
	if !ok {
		return persistence.Booking{}, ErrNotFound
	}
	return booking, nil
}

// BookingsByUser returns bookings made by the user. An unknown user yields
// an empty list.
func (s *BookingService) BookingsByUser(ctx context.Context, userID persistence.ID) ([]persistence.Booking, error) {
	doc, err := loadDocument(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return persistence.BookingsByUser(doc, userID), nil
}

// BookingsByResource returns bookings of the resource. An unknown resource
// yields an empty list.
func (s *BookingService) BookingsByResource(ctx context.Context, resourceID persistence.ID) ([]persistence.Booking, error) {
	doc, err := loadDocument(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return persistence.BookingsByResource(doc, resourceID), nil
}

// CreateBooking stores a confirmed booking after copying the user's name and
// the resource's name and type onto it. Availability and capacity are not
// consulted.
func (s *BookingService) CreateBooking(ctx context.Context, params CreateBookingParams) (booking persistence.Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}
	if s.store == nil {
		err = fmt.Errorf("%w: store not configured", ErrStoreUnavailable)
		return
	}

	logger := s.loggerWith(ctx, "CreateBooking",
		"user_id", params.UserID,
		"resource_id", params.ResourceID,
		"date", params.Date,
	)
	var conflicts []scheduler.Conflict
	defer func() {
		if len(conflicts) > 0 {
			s.reportConflicts(ctx, logger, conflicts)
		}
		if err != nil {
			logger.ErrorContext(ctx, "failed to create booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		s.options.Observer.BookingCreated(booking.ResourceType)
		logger.With("booking_id", booking.ID).InfoContext(ctx, "booking created")
	}()

	id := persistence.ID(s.idGenerator())
	bookedOn := s.now().UTC().Format(dateLayout)

	_, err = s.store.Update(ctx, func(doc *persistence.Document) error {
		user, _, userOK := persistence.FindUser(*doc, params.UserID)
		resource, _, resourceOK := persistence.FindResource(*doc, params.ResourceID)
		if !userOK || !resourceOK {
			return ErrNotFound
		}

		candidate := persistence.Booking{
			ID:           id,
			UserID:       user.ID,
			UserName:     user.FullName,
			ResourceID:   resource.ID,
			ResourceName: resource.Name,
			ResourceType: resource.Type,
			Date:         params.Date,
			StartTime:    params.StartTime,
			EndTime:      params.EndTime,
			Status:       persistence.BookingStatusConfirmed,
			BookedOn:     bookedOn,
		}

		conflicts = detectConflicts(*doc, candidate)
		if len(conflicts) > 0 && s.options.RejectOverlaps {
			return &ConflictError{Conflicts: conflicts}
		}

		doc.Bookings = append(doc.Bookings, candidate)
		booking = candidate
		return nil
	})
	if err != nil {
		booking = persistence.Booking{}
	}
	return
}

// UpdateBooking merges the patch onto the stored booking. When overlaps are
// rejected the merged slot is checked against the other bookings.
func (s *BookingService) UpdateBooking(ctx context.Context, id persistence.ID, patch persistence.Patch) (booking persistence.Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}
	if s.store == nil {
		err = fmt.Errorf("%w: store not configured", ErrStoreUnavailable)
		return
	}

	logger := s.loggerWith(ctx, "UpdateBooking", "booking_id", id)
	var conflicts []scheduler.Conflict
	defer func() {
		if len(conflicts) > 0 {
			s.reportConflicts(ctx, logger, conflicts)
		}
		if err != nil {
			logger.ErrorContext(ctx, "failed to update booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking updated")
	}()

	_, err = s.store.Update(ctx, func(doc *persistence.Document) error {
		_, idx, ok := persistence.FindBooking(*doc, id)
		if !ok {
			return ErrNotFound
		}

		merged, err := mergePatch(doc.Bookings[idx], patch)
		if err != nil {
			return err
		}

		conflicts = detectConflicts(*doc, merged)
		if len(conflicts) > 0 && s.options.RejectOverlaps {
			return &ConflictError{Conflicts: conflicts}
		}

		doc.Bookings[idx] = merged
		booking = merged
		return nil
	})
	if err != nil {
		booking = persistence.Booking{}
	}
	return
}

// CancelBooking removes the booking and returns it. Any caller may cancel
// any booking.
func (s *BookingService) CancelBooking(ctx context.Context, id persistence.ID) (booking persistence.Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CancelBooking", "booking_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to cancel booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		s.options.Observer.BookingCancelled()
		logger.InfoContext(ctx, "booking cancelled")
	}()

	booking, err = removeRecord(ctx, s.store, bookingsCollection, id)
	return
}

// Dashboard returns the user's bookings split around today's date (UTC).
// Upcoming bookings, dated today or later, are ordered soonest first; past
// bookings are ordered most recent first.
func (s *BookingService) Dashboard(ctx context.Context, userID persistence.ID) (Dashboard, error) {
	doc, err := loadDocument(ctx, s.store)
	if err != nil {
		return Dashboard{}, err
	}

	user, _, ok := persistence.FindUser(doc, userID)
	if !ok {
		return Dashboard{}, ErrNotFound
	}

	today := s.now().UTC().Format(dateLayout)
	dashboard := Dashboard{
		User:     publicUser(user),
		Upcoming: []persistence.Booking{},
		History:  []persistence.Booking{},
	}
	for _, booking := range persistence.BookingsByUser(doc, userID) {
		if booking.Date >= today {
			dashboard.Upcoming = append(dashboard.Upcoming, booking)
		} else {
			dashboard.History = append(dashboard.History, booking)
		}
	}

	sort.SliceStable(dashboard.Upcoming, func(i, j int) bool {
		return slotKey(dashboard.Upcoming[i]) < slotKey(dashboard.Upcoming[j])
	})
	sort.SliceStable(dashboard.History, func(i, j int) bool {
		return slotKey(dashboard.History[i]) > slotKey(dashboard.History[j])
	})
	return dashboard, nil
}

func (s *BookingService) reportConflicts(ctx context.Context, logger *slog.Logger, conflicts []scheduler.Conflict) {
	for _, c := range conflicts {
		logger.WarnContext(ctx, "booking overlaps existing booking",
			"with_booking_id", c.WithBookingID,
			"conflict_start", c.StartTime,
			"conflict_end", c.EndTime,
			"rejected", s.options.RejectOverlaps,
		)
	}
	s.options.Observer.ConflictDetected(s.options.RejectOverlaps)
}

func detectConflicts(doc persistence.Document, candidate persistence.Booking) []scheduler.Conflict {
	existing := persistence.BookingsByResource(doc, candidate.ResourceID)
	slots := make([]scheduler.Slot, len(existing))
	for i, booking := range existing {
		slots[i] = slotOf(booking)
	}
	return scheduler.DetectConflicts(slots, slotOf(candidate))
}

func slotOf(booking persistence.Booking) scheduler.Slot {
	return scheduler.Slot{
		ID:         booking.ID.String(),
		ResourceID: booking.ResourceID.String(),
		Date:       booking.Date,
		StartTime:  booking.StartTime,
		EndTime:    booking.EndTime,
	}
}

func slotKey(booking persistence.Booking) string {
	return booking.Date + "T" + booking.StartTime
}
