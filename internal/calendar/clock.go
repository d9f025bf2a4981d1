package calendar

import "time"

// Clock supplies the current instant and the location calendar dates are
// observed in.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

// SystemClock reads the wall clock.
type SystemClock struct {
	Loc *time.Location
}

func (c SystemClock) Now() time.Time { return time.Now() }

func (c SystemClock) Location() *time.Location {
	if c.Loc == nil {
		return time.Local
	}
	return c.Loc
}

// FixedClock always returns the same instant. Used by tests.
type FixedClock struct {
	At  time.Time
	Loc *time.Location
}

func (c *FixedClock) Now() time.Time { return c.At }

func (c *FixedClock) Location() *time.Location {
	if c.Loc == nil {
		return time.UTC
	}
	return c.Loc
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) { c.At = c.At.Add(d) }

// Today returns the current calendar date as seen by c.
func Today(c Clock) Date {
	return In(c.Now(), c.Location())
}
