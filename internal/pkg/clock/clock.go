package clock

import "time"

// Clock yields the current wall time in the organization's timezone.
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

// New returns a Clock reading the system time in loc. A nil loc means UTC.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Func adapts a plain function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time {
	return f()
}

// Fixed returns a Clock frozen at t.
func Fixed(t time.Time) Clock {
	return Func(func() time.Time { return t })
}
