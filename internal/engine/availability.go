package engine

import (
	"context"

	"github.com/hanbit/makerspace-reservation/internal/model"
)

// SlotStatus reports one laser catalog window on one unit.
type SlotStatus struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Occupied  bool   `json:"occupied"`
}

// MachineAvailability reports one unit for a date. Date-only classes
// use Occupied; laser fills Slots; saw and vacuum former list the
// windows already booked so callers can pick around them.
type MachineAvailability struct {
	MachineID uint64        `json:"machine_id"`
	Name      string        `json:"name"`
	Occupied  bool          `json:"occupied"`
	Slots     []SlotStatus  `json:"slots,omitempty"`
	Booked    []SlotRequest `json:"booked,omitempty"`
}

// Availability is the per-class answer to "what is free on this
// date". Remaining is set only for the printer class, whose capacity
// is counted per date rather than per unit; zero means fully booked,
// nil means the field does not apply.
type Availability struct {
	Class     model.MachineClass    `json:"machine_class"`
	Date      string                `json:"date"`
	Remaining *int                  `json:"remaining,omitempty"`
	Machines  []MachineAvailability `json:"machines"`
}

// ListReservations returns the caller's own reservations.
func (e *Engine) ListReservations(ctx context.Context, p Principal) ([]model.Reservation, error) {
	if p.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	list, err := e.Reservations.ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, internal(err)
	}
	return list, nil
}

// QueryAvailability builds the occupancy view for a class and date.
// It is a read-only snapshot; nothing here holds a reservation.
func (e *Engine) QueryAvailability(ctx context.Context, class model.MachineClass, rawDate string) (*Availability, error) {
	if _, err := e.Calendar.ParseDate(rawDate); err != nil {
		return nil, invalid("date must be YYYY-MM-DD")
	}

	out := &Availability{Class: class, Date: rawDate}

	if class == model.ClassPrinter {
		count, err := e.Reservations.CountForDate(ctx, class, rawDate)
		if err != nil {
			return nil, internal(err)
		}
		capacity, err := e.Machines.CountActiveByClass(ctx, class)
		if err != nil {
			return nil, internal(err)
		}
		remaining := capacity - count
		if remaining < 0 {
			remaining = 0
		}
		out.Remaining = &remaining
		return out, nil
	}

	machines, err := e.Machines.ListByClass(ctx, class, true)
	if err != nil {
		return nil, internal(err)
	}
	taken, err := e.Reservations.ListForDate(ctx, class, rawDate)
	if err != nil {
		return nil, internal(err)
	}

	// Index occupied cells by unit, and by window for time-scoped
	// classes.
	byMachine := map[uint64][]model.Reservation{}
	for _, rec := range taken {
		byMachine[rec.MachineID] = append(byMachine[rec.MachineID], rec)
	}

	var catalog []model.LaserSlot
	if class == model.ClassLaser {
		catalog, err = e.Machines.ListSlots(ctx)
		if err != nil {
			return nil, internal(err)
		}
	}

	for _, m := range machines {
		ma := MachineAvailability{MachineID: m.ID, Name: m.Name}
		recs := byMachine[m.ID]
		switch class {
		case model.ClassLaser:
			occupied := map[[2]string]bool{}
			for _, rec := range recs {
				occupied[[2]string{rec.StartTime, rec.EndTime}] = true
			}
			for _, s := range catalog {
				ma.Slots = append(ma.Slots, SlotStatus{
					StartTime: s.StartTime,
					EndTime:   s.EndTime,
					Occupied:  occupied[[2]string{s.StartTime, s.EndTime}],
				})
			}
		case model.ClassSaw, model.ClassVacuum:
			for _, rec := range recs {
				ma.Booked = append(ma.Booked, SlotRequest{StartTime: rec.StartTime, EndTime: rec.EndTime})
			}
		default:
			ma.Occupied = len(recs) > 0
		}
		out.Machines = append(out.Machines, ma)
	}
	return out, nil
}
