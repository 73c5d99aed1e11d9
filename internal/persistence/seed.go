package persistence

import (
	"context"
	"fmt"
)

// SeedResources returns the resources written to a store that has never
// been initialised.
func SeedResources() []Resource {
	return []Resource{
		{
			ID:         "1",
			Name:       "Study Room 102",
			Type:       "Study Room",
			Building:   "Main Library",
			Capacity:   30,
			Facilities: []string{"High-Speed Computers", "Programming Software", "Wi-Fi"},
			Available:  true,
		},
		{
			ID:         "2",
			Name:       "Meeting Room A",
			Type:       "Conference Room",
			Building:   "Admin Block",
			Capacity:   15,
			Facilities: []string{"Projector", "Whiteboard", "Video Conference"},
			Available:  true,
		},
		{
			ID:         "3",
			Name:       "Conference Hall 1",
			Type:       "Conference Room",
			Building:   "Academic Building",
			Capacity:   50,
			Facilities: []string{"Audio System", "Podium", "AC"},
			Available:  true,
		},
		{
			ID:         "4",
			Name:       "Badminton Court",
			Type:       "Sports Facility",
			Building:   "Sports Complex",
			Capacity:   4,
			Facilities: []string{"Outdoor Court", "Night Lights", "Equipment Rental"},
			Available:  true,
		},
		{
			ID:         "5",
			Name:       "Tennis Court",
			Type:       "Sports Facility",
			Building:   "Sports Complex",
			Capacity:   4,
			Facilities: []string{"Outdoor Court", "Night Lights", "Equipment Rental"},
			Available:  true,
		},
		{
			ID:         "6",
			Name:       "Reading Hall A",
			Type:       "Library Resource",
			Building:   "Main Library",
			Capacity:   50,
			Facilities: []string{"Silent Zone", "Individual Desks", "AC"},
			Available:  true,
		},
	}
}

// Seed writes the initial document when the store has never been written.
// It reports whether seeding happened.
func Seed(ctx context.Context, store DocumentStore) (bool, error) {
	exists, err := store.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("persistence: check store: %w", err)
	}
	if exists {
		return false, nil
	}

	doc := EmptyDocument()
	doc.Resources = SeedResources()
	if err := store.Save(ctx, doc); err != nil {
		return false, err
	}
	return true, nil
}
