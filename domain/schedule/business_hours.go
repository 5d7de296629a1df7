package schedule

import (
	"fmt"
	"math"
	"time"
)

// MaxProjectionHours bounds the work Project will count; longer estimates are projected as this many hours.
const MaxProjectionHours = 10000

// BusinessHours is a recurring daily work window [StartHour, EndHour).
type BusinessHours struct {
	StartHour int
	EndHour   int
	// Location the window is read in, time.Local when nil.
	Location *time.Location
}

func DefaultBusinessHours() BusinessHours {
	return BusinessHours{StartHour: 10, EndHour: 19}
}

func (b BusinessHours) Validate() error {
	if b.StartHour < 0 || b.EndHour > 24 || b.StartHour >= b.EndHour {
		return fmt.Errorf("invalid business hours [%d, %d)", b.StartHour, b.EndHour)
	}
	return nil
}

func (b BusinessHours) location() *time.Location {
	if b.Location == nil {
		return time.Local
	}
	return b.Location
}

func (b BusinessHours) opening(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), b.StartHour, 0, 0, 0, b.location())
}

func (b BusinessHours) closing(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), b.EndHour, 0, 0, 0, b.location())
}

func (b BusinessHours) nextOpening(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, b.StartHour, 0, 0, 0, b.location())
}

// Snap moves t forward to the nearest instant inside the window.
func (b BusinessHours) Snap(t time.Time) time.Time {
	t = t.In(b.location())
	if t.Before(b.opening(t)) {
		return b.opening(t)
	}
	if !t.Before(b.closing(t)) {
		return b.nextOpening(t)
	}
	return t
}

// Project returns the instant at which hours of work started at start are done,
// counting only time inside the window. Work that ends exactly at closing time
// is reported at the next day's opening, so the result is always inside the window.
func (b BusinessHours) Project(start time.Time, hours float64) time.Time {
	t := b.Snap(start)
	if math.IsNaN(hours) {
		return t
	}
	hours = math.Min(hours, MaxProjectionHours)
	remaining := time.Duration(hours * float64(time.Hour)).Round(time.Second)
	for remaining > 0 {
		left := b.closing(t).Sub(t)
		if remaining < left {
			return t.Add(remaining)
		}
		remaining -= left
		t = b.nextOpening(t)
	}
	return t
}

// InWindow reports whether t falls inside [StartHour, EndHour) of its day.
func (b BusinessHours) InWindow(t time.Time) bool {
	t = t.In(b.location())
	return !t.Before(b.opening(t)) && t.Before(b.closing(t))
}
