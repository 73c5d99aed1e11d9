// Package scheduler detects overlapping reservations of the same resource.
package scheduler

import (
	"strings"
	"time"
)

// Slot is a reservation window on a calendar date. Times are wall-clock
// "HH:MM" strings as entered by users; no time zone is attached.
type Slot struct {
	ID         string
	ResourceID string
	Date       string
	StartTime  string
	EndTime    string
}

// Conflict details an existing slot that overlaps the candidate.
type Conflict struct {
	WithBookingID string
	ResourceID    string
	Date          string
	StartTime     string
	EndTime       string
}

var clockLayouts = []string{"15:04", "15:04:05"}

// DetectConflicts returns every existing slot for the same resource and date
// whose time range overlaps the candidate. Ranges are half-open, so a slot
// ending at 10:00 does not conflict with one starting at 10:00. Slots whose
// times cannot be parsed, or whose end is not after their start, never
// conflict.
func DetectConflicts(existing []Slot, candidate Slot) []Conflict {
	start, end, ok := window(candidate)
	if !ok {
		return nil
	}

	var conflicts []Conflict
	for _, slot := range existing {
		if slot.ID != "" && slot.ID == candidate.ID {
			continue
		}
		if slot.ResourceID != candidate.ResourceID || strings.TrimSpace(slot.Date) != strings.TrimSpace(candidate.Date) {
			continue
		}

		otherStart, otherEnd, ok := window(slot)
		if !ok {
			continue
		}
		if start < otherEnd && otherStart < end {
			conflicts = append(conflicts, Conflict{
				WithBookingID: slot.ID,
				ResourceID:    slot.ResourceID,
				Date:          slot.Date,
				StartTime:     slot.StartTime,
				EndTime:       slot.EndTime,
			})
		}
	}
	return conflicts
}

func window(slot Slot) (time.Duration, time.Duration, bool) {
	start, ok := parseClock(slot.StartTime)
	if !ok {
		return 0, 0, false
	}
	end, ok := parseClock(slot.EndTime)
	if !ok || end <= start {
		return 0, 0, false
	}
	return start, end, true
}

func parseClock(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second, true
		}
	}
	return 0, false
}
