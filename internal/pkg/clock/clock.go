// Package clock provides time utilities for the application
package clock

import "time"

//go:generate mockgen -destination=mock/mock.go -package=mockclock github.com/KirkDiggler/pokedex/internal/pkg/clock Clock

// DayLayout is the calendar-day format used for streak bookkeeping
const DayLayout = "2006-01-02"

// Clock provides time functionality
type Clock interface {
	Now() time.Time
}

// Real implements Clock using actual system time
type Real struct{}

// Now returns the current local time
func (c *Real) Now() time.Time {
	return time.Now()
}

// New returns a new real clock
func New() Clock {
	return &Real{}
}

// Day returns the calendar day of t in t's own location
func Day(t time.Time) string {
	return t.Format(DayLayout)
}

// PreviousDay returns the calendar day before t's.
// Anchored at noon so DST transitions cannot skip or repeat a day.
func PreviousDay(t time.Time) string {
	y, m, d := t.Date()
	return time.Date(y, m, d-1, 12, 0, 0, 0, t.Location()).Format(DayLayout)
}
