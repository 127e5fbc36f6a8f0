package engine

import (
	"context"
	"errors"

	"github.com/hanbit/makerspace-reservation/internal/model"
	"github.com/hanbit/makerspace-reservation/internal/repository"
)

// SlotRequest is one requested laser window. Times are "HH:MM" strings
// that must match a catalog entry exactly.
type SlotRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AllocateRequest carries the class-specific booking parameters. Laser
// requests supply a batch of Slots; saw and vacuum former requests
// supply a single StartTime/EndTime window; heat bender and CNC
// requests are date-only. MachineID may be zero for the single-unit
// classes (heat, cnc), which resolve to the first active unit.
type AllocateRequest struct {
	Date      string        `json:"date"`
	MachineID uint64        `json:"machine_id"`
	Slots     []SlotRequest `json:"slots"`
	StartTime string        `json:"start_time"`
	EndTime   string        `json:"end_time"`
}

// Allocate validates a booking request against eligibility, calendar
// rules and occupancy, then commits the reservation row(s) and any
// quota movement in one transaction. Checks run once before the
// transaction opens and are re-verified on the write path inside it;
// this narrows the race window between concurrent identical requests
// without claiming to close it, since the occupancy key carries no
// uniqueness constraint.
func (e *Engine) Allocate(ctx context.Context, class model.MachineClass, p Principal, req AllocateRequest) ([]model.Reservation, error) {
	if p.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	u, err := e.Users.GetByID(ctx, p.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, denied("unknown requester")
	}
	if err != nil {
		return nil, internal(err)
	}
	if err := checkEligibility(u, class); err != nil {
		return nil, err
	}

	date, err := e.Calendar.ParseDate(req.Date)
	if err != nil {
		return nil, invalid("date must be YYYY-MM-DD")
	}
	if err := checkCalendar(e.Calendar, class, date); err != nil {
		return nil, err
	}

	machine, err := e.resolveMachine(ctx, class, req.MachineID)
	if err != nil {
		return nil, err
	}

	// Resolve the windows this request occupies. Laser consumes one
	// window per requested slot; saw and vacuum former occupy the
	// window the member picked; the rest occupy the whole date.
	var windows []SlotRequest
	switch class {
	case model.ClassLaser:
		catalog, err := e.Machines.ListSlots(ctx)
		if err != nil {
			return nil, internal(err)
		}
		slots, err := matchSlots(catalog, req.Slots)
		if err != nil {
			return nil, err
		}
		if !laserQuotaAllows(u, len(slots)) {
			return nil, denied("laser quota exhausted")
		}
		for _, s := range slots {
			windows = append(windows, SlotRequest{StartTime: s.StartTime, EndTime: s.EndTime})
		}
	case model.ClassSaw, model.ClassVacuum:
		if err := checkWindow(req.StartTime, req.EndTime); err != nil {
			return nil, err
		}
		windows = []SlotRequest{{StartTime: req.StartTime, EndTime: req.EndTime}}
	default:
		windows = []SlotRequest{{}}
	}

	// Occupancy pre-checks before the transaction opens.
	for _, w := range windows {
		occupied, err := e.Reservations.Occupied(ctx, class, machine.ID, req.Date, w.StartTime, w.EndTime)
		if err != nil {
			return nil, internal(err)
		}
		if occupied {
			return nil, invalid("slot already reserved")
		}
	}
	if class == model.ClassPrinter {
		if err := e.printerCapacity(ctx, req.Date); err != nil {
			return nil, err
		}
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, internal(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if class == model.ClassPrinter {
		count, err := e.Reservations.CountForDateTx(ctx, tx, class, req.Date)
		if err != nil {
			return nil, internal(err)
		}
		capacity, err := e.Machines.CountActiveByClassTx(ctx, tx, class)
		if err != nil {
			return nil, internal(err)
		}
		if count >= capacity {
			return nil, invalid("no printer capacity left for the date")
		}
	}

	records := make([]model.Reservation, 0, len(windows))
	for _, w := range windows {
		occupied, err := e.Reservations.OccupiedTx(ctx, tx, class, machine.ID, req.Date, w.StartTime, w.EndTime)
		if err != nil {
			return nil, internal(err)
		}
		if occupied {
			return nil, invalid("slot already reserved")
		}
		rec := model.Reservation{
			MachineClass: class,
			UserID:       u.ID,
			MachineID:    machine.ID,
			Date:         req.Date,
			StartTime:    w.StartTime,
			EndTime:      w.EndTime,
		}
		if err := e.Reservations.CreateTx(ctx, tx, &rec); err != nil {
			return nil, internal(err)
		}
		records = append(records, rec)
	}

	if class == model.ClassLaser {
		err := e.Users.ConsumeLaserQuotaTx(ctx, tx, u.ID, len(records))
		if errors.Is(err, repository.ErrQuotaExhausted) {
			return nil, denied("laser quota exhausted")
		}
		if err != nil {
			return nil, internal(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, internal(err)
	}
	committed = true
	return records, nil
}

// resolveMachine loads and vets the unit a request points at. The
// single-unit classes (heat, cnc) may omit the id and take the first
// active unit; everything else must name one.
func (e *Engine) resolveMachine(ctx context.Context, class model.MachineClass, id uint64) (*model.Machine, error) {
	if id == 0 {
		if class != model.ClassHeat && class != model.ClassCnc {
			return nil, invalid("machine id is required")
		}
		m, err := e.Machines.FirstActiveByClass(ctx, class)
		if errors.Is(err, repository.ErrMachineNotFound) {
			return nil, invalid("no active unit available")
		}
		if err != nil {
			return nil, internal(err)
		}
		return m, nil
	}
	m, err := e.Machines.GetByID(ctx, id)
	if errors.Is(err, repository.ErrMachineNotFound) {
		return nil, notFound("machine not found")
	}
	if err != nil {
		return nil, internal(err)
	}
	if m.Class != class {
		return nil, invalid("machine does not belong to this class")
	}
	if !m.Active {
		return nil, invalid("machine is inactive")
	}
	return m, nil
}

// printerCapacity applies the printers-per-date rule outside the
// transaction. The same comparison is repeated on the write path.
func (e *Engine) printerCapacity(ctx context.Context, date string) error {
	count, err := e.Reservations.CountForDate(ctx, model.ClassPrinter, date)
	if err != nil {
		return internal(err)
	}
	capacity, err := e.Machines.CountActiveByClass(ctx, model.ClassPrinter)
	if err != nil {
		return internal(err)
	}
	if count >= capacity {
		return invalid("no printer capacity left for the date")
	}
	return nil
}
