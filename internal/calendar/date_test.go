package calendar

import (
	"testing"
	"time"
)

func TestFromTime_StripsTimeOfDay(t *testing.T) {
	morning := time.Date(2025, 3, 9, 0, 0, 1, 0, time.UTC)
	night := time.Date(2025, 3, 9, 23, 59, 59, 0, time.UTC)
	if FromTime(morning) != FromTime(night) {
		t.Errorf("FromTime(%v) = %s, FromTime(%v) = %s, want equal", morning, FromTime(morning), night, FromTime(night))
	}
	if got := FromTime(morning); got != "2025-03-09" {
		t.Errorf("FromTime() = %q, want 2025-03-09", got)
	}
}

func TestIn_UsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 20:00 UTC on the 9th is already the 10th in Tokyo.
	ts := time.Date(2025, 3, 9, 20, 0, 0, 0, time.UTC)
	if got := In(ts, tokyo); got != "2025-03-10" {
		t.Errorf("In(JST) = %q, want 2025-03-10", got)
	}
	if got := In(ts, time.UTC); got != "2025-03-09" {
		t.Errorf("In(UTC) = %q, want 2025-03-09", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2025-01-31", "2025-01-31", false},
		{"2025-01-31T22:10:00Z", "2025-01-31", false},
		{"31/01/2025", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAddDays_CrossesMonthAndYear(t *testing.T) {
	if got := Date("2025-01-30").AddDays(3); got != "2025-02-02" {
		t.Errorf("AddDays(3) = %q, want 2025-02-02", got)
	}
	if got := Date("2025-12-31").AddDays(1); got != "2026-01-01" {
		t.Errorf("AddDays(1) = %q, want 2026-01-01", got)
	}
	if got := Date("2025-03-01").AddDays(-1); got != "2025-02-28" {
		t.Errorf("AddDays(-1) = %q, want 2025-02-28", got)
	}
}

func TestOrdering(t *testing.T) {
	a, b := Date("2025-01-09"), Date("2025-01-10")
	if !a.Before(b) || b.Before(a) {
		t.Error("expected 2025-01-09 before 2025-01-10")
	}
	if !a.OnOrBefore(a) {
		t.Error("expected date on-or-before itself")
	}
	if Max(a, b) != b {
		t.Errorf("Max = %q, want %q", Max(a, b), b)
	}
	if got := a.DaysUntil(Date("2025-01-16")); got != 7 {
		t.Errorf("DaysUntil = %d, want 7", got)
	}
}

func TestFixedClock_Today(t *testing.T) {
	c := &FixedClock{At: time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)}
	if Today(c) != "2025-06-01" {
		t.Errorf("Today = %q, want 2025-06-01", Today(c))
	}
	c.Advance(2 * time.Hour)
	if Today(c) != "2025-06-02" {
		t.Errorf("Today after advance = %q, want 2025-06-02", Today(c))
	}
}
