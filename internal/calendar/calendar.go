// Package calendar implements the date rules that gate equipment
// reservations: the fixed public-holiday table, the weekend rule and the
// lead-time comparison. All functions operate at day granularity and are
// pure given the evaluator's clock.
package calendar

import "time"

// holiday is a recurring fixed-date public holiday.
type holiday struct {
	Month time.Month
	Day   int
}

// holidays lists the solar public holidays observed by the workshop.
// Lunar holidays shift yearly and are not modeled; staff deactivate
// machines for those dates instead.
var holidays = []holiday{
	{time.January, 1},
	{time.March, 1},
	{time.May, 5},
	{time.June, 6},
	{time.August, 15},
	{time.October, 3},
	{time.October, 9},
	{time.December, 25},
}

// DateLayout is the wire format for reservation dates.
const DateLayout = "2006-01-02"

// Evaluator answers calendar questions relative to an injected clock.
// The zero value is not usable; construct with New.
type Evaluator struct {
	now func() time.Time
}

// New returns an Evaluator using the given clock. Pass nil to use
// time.Now.
func New(now func() time.Time) *Evaluator {
	if now == nil {
		now = time.Now
	}
	return &Evaluator{now: now}
}

// Today returns the current date truncated to day granularity, keeping
// the clock's location.
func (e *Evaluator) Today() time.Time {
	return truncate(e.now())
}

// ParseDate parses a "YYYY-MM-DD" string in the clock's location so
// that day arithmetic against Today never crosses a zone boundary.
func (e *Evaluator) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, e.now().Location())
}

// IsHoliday reports whether the date matches an entry of the fixed
// holiday table. Only month and day are compared; the table recurs
// yearly.
func IsHoliday(t time.Time) bool {
	for _, h := range holidays {
		if t.Month() == h.Month && t.Day() == h.Day {
			return true
		}
	}
	return false
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsUsable reports whether the date is a weekday that is not a public
// holiday.
func IsUsable(t time.Time) bool {
	return !IsWeekend(t) && !IsHoliday(t)
}

// NextValidDate computes the single date next-day-only machines (laser,
// heat) may be booked for. Starting from tomorrow (or today when
// fromTomorrow is false) it repeatedly jumps weekends to the following
// Monday and steps over holidays one day at a time, re-checking the
// weekend rule after each holiday skip, until a usable weekday remains.
func (e *Evaluator) NextValidDate(fromTomorrow bool) time.Time {
	d := e.Today()
	if fromTomorrow {
		d = d.AddDate(0, 0, 1)
	}
	for {
		switch d.Weekday() {
		case time.Saturday:
			d = d.AddDate(0, 0, 2)
			continue
		case time.Sunday:
			d = d.AddDate(0, 0, 1)
			continue
		}
		if IsHoliday(d) {
			d = d.AddDate(0, 0, 1)
			continue
		}
		return d
	}
}

// IsAtLeastDaysAhead reports whether the date is n or more calendar days
// after today. The comparison counts whole days, so for n = 2 tomorrow
// fails and today+3 passes.
func (e *Evaluator) IsAtLeastDaysAhead(t time.Time, n int) bool {
	diff := truncate(t).Sub(e.Today()) / (24 * time.Hour)
	return int(diff) >= n
}

// IsAfterToday reports whether the date is strictly later than today.
func (e *Evaluator) IsAfterToday(t time.Time) bool {
	return truncate(t).After(e.Today())
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
