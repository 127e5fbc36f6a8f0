package calendar

import (
	"testing"
	"time"
)

// fixedClock returns a clock function pinned to the given date.
func fixedClock(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 10, 30, 0, 0, time.UTC) }
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsHoliday(t *testing.T) {
	cases := []struct {
		in   time.Time
		want bool
	}{
		{date(2024, time.January, 1), true},
		{date(2025, time.January, 1), true}, // table recurs yearly
		{date(2024, time.March, 1), true},
		{date(2024, time.May, 5), true},
		{date(2024, time.October, 9), true},
		{date(2024, time.December, 25), true},
		{date(2024, time.December, 24), false},
		{date(2024, time.February, 14), false},
	}
	for _, c := range cases {
		if got := IsHoliday(c.in); got != c.want {
			t.Errorf("IsHoliday(%s) = %v, want %v", c.in.Format("2006-01-02"), got, c.want)
		}
	}
}

func TestNextValidDate(t *testing.T) {
	t.Run("weekday tomorrow is returned as-is", func(t *testing.T) {
		// Wed 2024-03-06 -> Thu 2024-03-07.
		e := New(fixedClock(2024, time.March, 6))
		if got := e.NextValidDate(true); !got.Equal(date(2024, time.March, 7)) {
			t.Fatalf("got %s, want 2024-03-07", got.Format("2006-01-02"))
		}
	})

	t.Run("fromTomorrow=false keeps a usable today", func(t *testing.T) {
		// Fri 2024-03-08 is itself a valid reservation date.
		e := New(fixedClock(2024, time.March, 8))
		if got := e.NextValidDate(false); !got.Equal(date(2024, time.March, 8)) {
			t.Fatalf("got %s, want 2024-03-08", got.Format("2006-01-02"))
		}
	})

	t.Run("weekend jumps to the following Monday", func(t *testing.T) {
		// Fri 2024-03-08 -> Sat -> Mon 2024-03-11.
		e := New(fixedClock(2024, time.March, 8))
		if got := e.NextValidDate(true); !got.Equal(date(2024, time.March, 11)) {
			t.Fatalf("got %s, want 2024-03-11", got.Format("2006-01-02"))
		}
	})

	t.Run("midweek holiday is stepped over", func(t *testing.T) {
		// Wed 2024-06-05 -> Thu 2024-06-06 is Memorial Day -> Fri 2024-06-07.
		e := New(fixedClock(2024, time.June, 5))
		if got := e.NextValidDate(true); !got.Equal(date(2024, time.June, 7)) {
			t.Fatalf("got %s, want 2024-06-07", got.Format("2006-01-02"))
		}
	})

	t.Run("holiday Friday compounds into the following Monday", func(t *testing.T) {
		// Thu 2024-02-29 -> Fri 2024-03-01 is a holiday -> Sat -> Mon 2024-03-04.
		e := New(fixedClock(2024, time.February, 29))
		if got := e.NextValidDate(true); !got.Equal(date(2024, time.March, 4)) {
			t.Fatalf("got %s, want 2024-03-04", got.Format("2006-01-02"))
		}
	})

	t.Run("weekend then holiday Sunday lands on Monday", func(t *testing.T) {
		// Fri 2024-05-03 -> Sat 2024-05-04 -> Mon 2024-05-06; the holiday on
		// Sun 2024-05-05 is absorbed by the weekend jump.
		e := New(fixedClock(2024, time.May, 3))
		if got := e.NextValidDate(true); !got.Equal(date(2024, time.May, 6)) {
			t.Fatalf("got %s, want 2024-05-06", got.Format("2006-01-02"))
		}
	})
}

func TestIsAtLeastDaysAhead(t *testing.T) {
	e := New(fixedClock(2024, time.March, 6))
	cases := []struct {
		target time.Time
		n      int
		want   bool
	}{
		{date(2024, time.March, 7), 2, false}, // today+1
		{date(2024, time.March, 8), 2, true},  // today+2
		{date(2024, time.March, 9), 2, true},  // today+3
		{date(2024, time.March, 6), 1, false}, // today itself
		{date(2024, time.March, 5), 0, false}, // in the past
	}
	for _, c := range cases {
		if got := e.IsAtLeastDaysAhead(c.target, c.n); got != c.want {
			t.Errorf("IsAtLeastDaysAhead(%s, %d) = %v, want %v",
				c.target.Format("2006-01-02"), c.n, got, c.want)
		}
	}
}

func TestIsAfterToday(t *testing.T) {
	e := New(fixedClock(2024, time.March, 6))
	if e.IsAfterToday(date(2024, time.March, 6)) {
		t.Error("today must not count as after today")
	}
	if !e.IsAfterToday(date(2024, time.March, 7)) {
		t.Error("tomorrow must count as after today")
	}
}

func TestIsUsable(t *testing.T) {
	if IsUsable(date(2024, time.March, 9)) {
		t.Error("Saturday must not be usable")
	}
	if IsUsable(date(2024, time.June, 6)) {
		t.Error("holidays must not be usable")
	}
	if !IsUsable(date(2024, time.March, 6)) {
		t.Error("plain weekday must be usable")
	}
}

// IsAtLeastDaysAhead on a past date relies on negative day counts.
func TestIsAtLeastDaysAheadPast(t *testing.T) {
	e := New(fixedClock(2024, time.March, 6))
	if e.IsAtLeastDaysAhead(date(2024, time.February, 1), 2) {
		t.Error("dates in the past can never satisfy a lead-time requirement")
	}
}
