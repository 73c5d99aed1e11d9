package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/campus-booking/internal/persistence"
)

var (
	userCounter     uint64
	resourceCounter uint64
	bookingCounter  uint64
)

var referenceTime = time.Date(2025, time.November, 20, 9, 30, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserFixture represents a deterministic campus account.
type UserFixture struct {
	ID                 string
	RegistrationNumber string
	FullName           string
	Password           string
	Email              string
	Department         string
	Role               string
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	fixture := UserFixture{
		ID:                 fmt.Sprintf("user-%03d", idx),
		RegistrationNumber: fmt.Sprintf("R%03d", idx),
		FullName:           fmt.Sprintf("Student %03d", idx),
		Password:           fmt.Sprintf("password-%03d", idx),
		Email:              fmt.Sprintf("student%03d@campus.example", idx),
		Department:         "Computer Science",
		Role:               "Student",
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

func WithUserID(id string) UserOption {
	return func(f *UserFixture) { f.ID = id }
}

func WithRegistrationNumber(regNo string) UserOption {
	return func(f *UserFixture) { f.RegistrationNumber = regNo }
}

func WithFullName(name string) UserOption {
	return func(f *UserFixture) { f.FullName = name }
}

// WithPassword sets the password stored on the record. Tests that exercise
// login against hashed passwords store the hash here.
func WithPassword(password string) UserOption {
	return func(f *UserFixture) { f.Password = password }
}

func WithRole(role string) UserOption {
	return func(f *UserFixture) { f.Role = role }
}

// Persistence converts the fixture into a stored user record.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		ID:                 persistence.ID(f.ID),
		RegistrationNumber: f.RegistrationNumber,
		FullName:           f.FullName,
		DateOfBirth:        "2003-04-01",
		Password:           f.Password,
		Email:              f.Email,
		PhoneNumber:        "555-0100",
		Department:         f.Department,
		Role:               f.Role,
	}
}

// --------------------------- Resource fixtures ---------------------------

// ResourceFixture represents a deterministic bookable resource.
type ResourceFixture struct {
	ID         string
	Name       string
	Type       string
	Building   string
	Capacity   int
	Facilities []string
}

// ResourceOption configures the generated resource fixture.
type ResourceOption func(*ResourceFixture)

// NewResourceFixture returns a deterministic resource fixture with optional overrides.
func NewResourceFixture(opts ...ResourceOption) ResourceFixture {
	idx := atomic.AddUint64(&resourceCounter, 1)
	fixture := ResourceFixture{
		ID:         fmt.Sprintf("resource-%03d", idx),
		Name:       fmt.Sprintf("Room %03d", idx),
		Type:       "Study Room",
		Building:   "Library",
		Capacity:   6,
		Facilities: []string{"Whiteboard"},
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

func WithResourceID(id string) ResourceOption {
	return func(f *ResourceFixture) { f.ID = id }
}

func WithResourceName(name string) ResourceOption {
	return func(f *ResourceFixture) { f.Name = name }
}

func WithResourceType(resourceType string) ResourceOption {
	return func(f *ResourceFixture) { f.Type = resourceType }
}

func WithCapacity(capacity int) ResourceOption {
	return func(f *ResourceFixture) { f.Capacity = capacity }
}

func WithFacilities(facilities ...string) ResourceOption {
	return func(f *ResourceFixture) { f.Facilities = append([]string(nil), facilities...) }
}

// Persistence converts the fixture into a stored resource record.
func (f ResourceFixture) Persistence() persistence.Resource {
	facilities := append([]string{}, f.Facilities...)
	return persistence.Resource{
		ID:         persistence.ID(f.ID),
		Name:       f.Name,
		Type:       f.Type,
		Building:   f.Building,
		Capacity:   f.Capacity,
		Facilities: facilities,
		Available:  true,
	}
}

// --------------------------- Booking fixtures ----------------------------

// BookingFixture represents a confirmed booking of one resource by one user.
type BookingFixture struct {
	ID        string
	User      UserFixture
	Resource  ResourceFixture
	Date      string
	StartTime string
	EndTime   string
}

// BookingOption configures the generated booking fixture.
type BookingOption func(*BookingFixture)

// NewBookingFixture returns a booking for the given user and resource on the
// reference date, 10:00 to 11:00.
func NewBookingFixture(user UserFixture, resource ResourceFixture, opts ...BookingOption) BookingFixture {
	idx := atomic.AddUint64(&bookingCounter, 1)
	fixture := BookingFixture{
		ID:        fmt.Sprintf("booking-%03d", idx),
		User:      user,
		Resource:  resource,
		Date:      referenceTime.Format("2006-01-02"),
		StartTime: "10:00",
		EndTime:   "11:00",
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

func WithBookingID(id string) BookingOption {
	return func(f *BookingFixture) { f.ID = id }
}

// WithSlot sets the booking date and time window.
func WithSlot(date, start, end string) BookingOption {
	return func(f *BookingFixture) {
		f.Date = date
		f.StartTime = start
		f.EndTime = end
	}
}

// Persistence converts the fixture into a stored booking with the user and
// resource display fields copied on.
func (f BookingFixture) Persistence() persistence.Booking {
	return persistence.Booking{
		ID:           persistence.ID(f.ID),
		UserID:       persistence.ID(f.User.ID),
		UserName:     f.User.FullName,
		ResourceID:   persistence.ID(f.Resource.ID),
		ResourceName: f.Resource.Name,
		ResourceType: f.Resource.Type,
		Date:         f.Date,
		StartTime:    f.StartTime,
		EndTime:      f.EndTime,
		Status:       persistence.BookingStatusConfirmed,
		BookedOn:     referenceTime.Format("2006-01-02"),
	}
}

// Document assembles a normalized document from fixtures.
func Document(users []UserFixture, resources []ResourceFixture, bookings []BookingFixture) persistence.Document {
	doc := persistence.EmptyDocument()
	for _, u := range users {
		doc.Users = append(doc.Users, u.Persistence())
	}
	for _, r := range resources {
		doc.Resources = append(doc.Resources, r.Persistence())
	}
	for _, b := range bookings {
		doc.Bookings = append(doc.Bookings, b.Persistence())
	}
	return doc
}
