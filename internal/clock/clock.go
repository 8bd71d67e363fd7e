package clock

import "time"

// Clock abstracts time lookups so conflict timestamps and cache entries are
// deterministic under test.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Fake holds a fixed time for tests.
type Fake struct {
	current time.Time
}

// NewFake returns a Fake pinned to t.
func NewFake(t time.Time) *Fake {
	return &Fake{current: t}
}

func (f *Fake) Now() time.Time { return f.current }

// Advance moves the fake time forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.current = f.current.Add(d)
}

// Set pins the fake time to t.
func (f *Fake) Set(t time.Time) {
	f.current = t
}
