package engine

import "time"

// Window is an inclusive day range. A zero-length window (Start == End) is a
// valid single-day window.
type Window struct {
	Start time.Time
	End   time.Time
}

// DayOf truncates t to its calendar day in UTC. All window arithmetic runs on
// day granularity.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewWindow builds a day-granular window from two instants.
func NewWindow(start, end time.Time) Window {
	return Window{Start: DayOf(start), End: DayOf(end)}
}

// SingleDay builds the window covering exactly one day.
func SingleDay(t time.Time) Window {
	d := DayOf(t)
	return Window{Start: d, End: d}
}

// Valid reports whether the window is well-formed (Start <= End).
func (w Window) Valid() bool {
	return !w.End.Before(w.Start)
}

// Contains reports whether the day of t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	d := DayOf(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// IsZero reports whether the window is unset.
func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// Overlaps reports whether a and b share at least one day.
func Overlaps(a, b Window) bool {
	return !a.Start.After(b.End) && !b.Start.After(a.End)
}
