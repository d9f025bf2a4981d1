package calendar

import (
	"fmt"
	"time"
)

// Layout is the ISO calendar-date form used for every persisted date.
const Layout = "2006-01-02"

// Date is a calendar date in ISO form (yyyy-mm-dd). The zero value is the
// empty string and sorts before every real date.
//
// ISO dates order lexicographically, so Before/After are plain string
// comparisons and never look at time of day.
type Date string

// FromTime returns the calendar date of t in t's own location.
func FromTime(t time.Time) Date {
	return Date(t.Format(Layout))
}

// In returns the calendar date of t as observed in loc.
func In(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return FromTime(t.In(loc))
}

// Parse validates s and returns it as a Date. Timestamps with a time part
// (RFC3339) are accepted and truncated to their date.
func Parse(s string) (Date, error) {
	if t, err := time.Parse(Layout, s); err == nil {
		return FromTime(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// Time returns midnight UTC of the date. The zero Date yields the zero time.
func (d Date) Time() time.Time {
	if d == "" {
		return time.Time{}
	}
	t, err := time.Parse(Layout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the date n days later (n may be negative).
func (d Date) AddDays(n int) Date {
	if d == "" {
		return d
	}
	return FromTime(d.Time().AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d < other }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return d > other }

// OnOrBefore reports whether d ≤ other.
func (d Date) OnOrBefore(other Date) bool { return d <= other }

// DaysUntil returns the whole number of days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

func (d Date) String() string { return string(d) }

// Max returns the later of a and b.
func Max(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}
