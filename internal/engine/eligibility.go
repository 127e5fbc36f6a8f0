package engine

import (
	"regexp"
	"time"

	"github.com/hanbit/makerspace-reservation/internal/calendar"
	"github.com/hanbit/makerspace-reservation/internal/model"
)

// warningLimit is the number of active warnings that locks a member out
// of every machine class.
const warningLimit = 2

// cncLeadDays is the minimum number of days between a CNC request and
// its reservation date.
const cncLeadDays = 2

// checkEligibility applies the member-side gates shared by all machine
// classes plus the CNC year restriction. The order matters: training
// before warnings before class-specific rules, so clients see the most
// actionable failure first.
func checkEligibility(u model.User, class model.MachineClass) error {
	if !u.TrainingPassed {
		return denied("safety training not completed")
	}
	if u.WarningCount >= warningLimit {
		return denied("too many warnings")
	}
	if class == model.ClassCnc && u.Year != "4" && u.Year != "5" {
		return denied("cnc is limited to 4th and 5th year students")
	}
	return nil
}

// checkCalendar applies the per-class date rule. Laser and heat bender
// bookings exist only for the single next valid date; saw, vacuum
// former and printer accept any future weekday that is not a holiday;
// the CNC router additionally needs a two-day lead.
func checkCalendar(ev *calendar.Evaluator, class model.MachineClass, date time.Time) error {
	switch class {
	case model.ClassLaser, model.ClassHeat:
		if !date.Equal(ev.NextValidDate(true)) {
			return invalid("date is not the next reservable day")
		}
	case model.ClassCnc:
		if !ev.IsAtLeastDaysAhead(date, cncLeadDays) {
			return invalid("cnc requires two days of lead time")
		}
		if !calendar.IsUsable(date) {
			return invalid("date falls on a weekend or holiday")
		}
	default: // saw, vacuum, printer
		if !ev.IsAfterToday(date) {
			return invalid("date must be after today")
		}
		if !calendar.IsUsable(date) {
			return invalid("date falls on a weekend or holiday")
		}
	}
	return nil
}

// matchSlots resolves a batch of requested windows against the laser
// slot catalog. Every request must match a catalog entry exactly and no
// window may repeat within the batch.
func matchSlots(catalog []model.LaserSlot, reqs []SlotRequest) ([]model.LaserSlot, error) {
	if len(reqs) == 0 {
		return nil, invalid("at least one slot is required")
	}
	byWindow := make(map[[2]string]model.LaserSlot, len(catalog))
	for _, s := range catalog {
		byWindow[[2]string{s.StartTime, s.EndTime}] = s
	}
	seen := make(map[[2]string]bool, len(reqs))
	out := make([]model.LaserSlot, 0, len(reqs))
	for _, req := range reqs {
		key := [2]string{req.StartTime, req.EndTime}
		slot, ok := byWindow[key]
		if !ok {
			return nil, invalid("slot " + req.StartTime + "-" + req.EndTime + " is not in the catalog")
		}
		if seen[key] {
			return nil, invalid("slot " + req.StartTime + "-" + req.EndTime + " requested twice")
		}
		seen[key] = true
		out = append(out, slot)
	}
	return out, nil
}

// timePattern is the zero-padded wall-clock shape every stored window
// uses. Anything else would mis-key the occupancy cell, since windows
// compare as strings.
var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// checkWindow validates a requested time window: both ends must be
// "HH:MM" and the start must precede the end.
func checkWindow(start, end string) error {
	if !timePattern.MatchString(start) || !timePattern.MatchString(end) {
		return invalid("times must be HH:MM")
	}
	if start >= end {
		return invalid("start time must precede end time")
	}
	return nil
}

// laserQuotaAllows reports whether both remaining counters can absorb a
// batch of n slots.
func laserQuotaAllows(u model.User, n int) bool {
	limit := u.LaserQuotaWeek
	if u.LaserQuotaDay < limit {
		limit = u.LaserQuotaDay
	}
	return limit >= n
}
