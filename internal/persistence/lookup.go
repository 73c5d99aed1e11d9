package persistence

import "strings"

// The lookups below are linear scans over the loaded document. There is no
// secondary index; the dataset is assumed to stay small.

// FindUser returns the user with the given id and its index.
func FindUser(doc Document, id ID) (User, int, bool) {
	for i, user := range doc.Users {
		if user.ID == id {
			return user, i, true
		}
	}
	return User{}, -1, false
}

// FindUserByCredentials returns the first user whose registration number
// matches exactly and for which match reports true.
func FindUserByCredentials(doc Document, registrationNumber string, match func(User) bool) (User, bool) {
	for _, user := range doc.Users {
		if user.RegistrationNumber != registrationNumber {
			continue
		}
		if match == nil || match(user) {
			return user, true
		}
	}
	return User{}, false
}

// FindResource returns the resource with the given id and its index.
func FindResource(doc Document, id ID) (Resource, int, bool) {
	for i, resource := range doc.Resources {
		if resource.ID == id {
			return cloneResource(resource), i, true
		}
	}
	return Resource{}, -1, false
}

// FindBooking returns the booking with the given id and its index.
func FindBooking(doc Document, id ID) (Booking, int, bool) {
	for i, booking := range doc.Bookings {
		if booking.ID == id {
			return booking, i, true
		}
	}
	return Booking{}, -1, false
}

// BookingsByUser returns bookings whose userId equals userID.
func BookingsByUser(doc Document, userID ID) []Booking {
	return filter(doc.Bookings, func(b Booking) bool { return b.UserID == userID })
}

// BookingsByResource returns bookings whose resourceId equals resourceID.
func BookingsByResource(doc Document, resourceID ID) []Booking {
	return filter(doc.Bookings, func(b Booking) bool { return b.ResourceID == resourceID })
}

// ResourcesByType returns resources whose type label contains query,
// ignoring case.
func ResourcesByType(doc Document, query string) []Resource {
	needle := strings.ToLower(query)
	out := filter(doc.Resources, func(r Resource) bool {
		return strings.Contains(strings.ToLower(r.Type), needle)
	})
	for i := range out {
		out[i] = cloneResource(out[i])
	}
	return out
}

func filter[T any](records []T, keep func(T) bool) []T {
	out := make([]T, 0)
	for _, record := range records {
		if keep(record) {
			out = append(out, record)
		}
	}
	return out
}

func cloneResource(resource Resource) Resource {
	facilities := make([]string, len(resource.Facilities))
	copy(facilities, resource.Facilities)
	resource.Facilities = facilities
	return resource
}
