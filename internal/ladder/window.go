package ladder

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// MaxScanDays bounds how far ahead Next searches for a review window.
const MaxScanDays = 14

// DefaultWindows are the daily clock hours at which reviews happen.
var DefaultWindows = []int{9, 18}

var (
	ErrNoWindows   = errors.New("ladder: at least one review window is required")
	ErrInvalidHour = errors.New("ladder: window hour must be within 0-23")
)

// WindowSchedule is a fixed daily set of review instants.
type WindowSchedule struct {
	hours    []int
	location *time.Location
}

// NewWindowSchedule builds a schedule from clock hours in loc. Hours are
// sorted and deduplicated. A nil loc means UTC.
func NewWindowSchedule(hours []int, loc *time.Location) (WindowSchedule, error) {
	if len(hours) == 0 {
		return WindowSchedule{}, ErrNoWindows
	}
	if loc == nil {
		loc = time.UTC
	}

	seen := make(map[int]bool, len(hours))
	sorted := make([]int, 0, len(hours))
	for _, h := range hours {
		if h < 0 || h > 23 {
			return WindowSchedule{}, fmt.Errorf("%w: %d", ErrInvalidHour, h)
		}
		if seen[h] {
			continue
		}
		seen[h] = true
		sorted = append(sorted, h)
	}
	sort.Ints(sorted)

	return WindowSchedule{hours: sorted, location: loc}, nil
}

// MustWindowSchedule is NewWindowSchedule that panics on invalid input.
// Intended for package-level defaults and tests.
func MustWindowSchedule(hours []int, loc *time.Location) WindowSchedule {
	ws, err := NewWindowSchedule(hours, loc)
	if err != nil {
		panic(err)
	}
	return ws
}

// Hours returns a copy of the configured window hours, ascending.
func (w WindowSchedule) Hours() []int {
	out := make([]int, len(w.hours))
	copy(out, w.hours)
	return out
}

// Location returns the time zone the window hours are expressed in.
func (w WindowSchedule) Location() *time.Location {
	if w.location == nil {
		return time.UTC
	}
	return w.location
}

// Next returns the earliest window strictly after eligibleAt. If no window
// is found within MaxScanDays, eligibleAt is returned unchanged.
func (w WindowSchedule) Next(eligibleAt time.Time) time.Time {
	loc := w.Location()
	local := eligibleAt.In(loc)
	y, m, d := local.Date()

	for day := 0; day <= MaxScanDays; day++ {
		for _, h := range w.hours {
			candidate := time.Date(y, m, d+day, h, 0, 0, 0, loc)
			if candidate.After(eligibleAt) {
				return candidate
			}
		}
	}
	return eligibleAt
}

// IsWindow reports whether t falls exactly on a configured window.
func (w WindowSchedule) IsWindow(t time.Time) bool {
	local := t.In(w.Location())
	if local.Minute() != 0 || local.Second() != 0 || local.Nanosecond() != 0 {
		return false
	}
	for _, h := range w.hours {
		if local.Hour() == h {
			return true
		}
	}
	return false
}
