// Package repository contains data access logic separated from the
// engines and HTTP handlers. This file covers the machine registry: one
// row per physical unit plus the laser slot catalog shared by all laser
// units.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hanbit/makerspace-reservation/internal/model"
)

// ErrMachineNotFound is returned when a machine lookup matches no row.
var ErrMachineNotFound = errors.New("machine not found")

// ErrSlotNotFound is returned when a requested (start, end) pair is not
// part of the laser slot catalog.
var ErrSlotNotFound = errors.New("slot not in catalog")

// MachineRepo encapsulates all database queries related to machines and
// the laser slot catalog.
type MachineRepo struct {
	db *sql.DB
}

// NewMachineRepo constructs a MachineRepo with the provided DB handle.
func NewMachineRepo(db *sql.DB) *MachineRepo {
	return &MachineRepo{db: db}
}

const machineColumns = `id, class, name, active, unit_count, created_at, updated_at`

// Create inserts a new machine unit. On success the ID field is
// populated with the auto-generated value.
func (r *MachineRepo) Create(ctx context.Context, m *model.Machine) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO machines (class, name, active, unit_count) VALUES (?,?,?,?)`,
		m.Class, m.Name, m.Active, m.UnitCount)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM machines WHERE id=?`, m.ID,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
}

// GetByID fetches a machine by its ID regardless of class. It returns
// ErrMachineNotFound if no row is found.
func (r *MachineRepo) GetByID(ctx context.Context, id uint64) (*model.Machine, error) {
	var m model.Machine
	err := r.db.QueryRowContext(ctx,
		`SELECT `+machineColumns+` FROM machines WHERE id=?`, id,
	).Scan(&m.ID, &m.Class, &m.Name, &m.Active, &m.UnitCount, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMachineNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FirstActiveByClass returns the lowest-id active unit of a class. The
// heat bender and CNC router are booked without the client naming a
// unit, so the engine resolves the unit through this lookup.
func (r *MachineRepo) FirstActiveByClass(ctx context.Context, class model.MachineClass) (*model.Machine, error) {
	var m model.Machine
	err := r.db.QueryRowContext(ctx,
		`SELECT `+machineColumns+` FROM machines WHERE class=? AND active=1 ORDER BY id LIMIT 1`,
		class,
	).Scan(&m.ID, &m.Class, &m.Name, &m.Active, &m.UnitCount, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMachineNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CountActiveByClass returns the number of active units of a class. The
// printer allocation rule compares the day's reservation count against
// this capacity.
func (r *MachineRepo) CountActiveByClass(ctx context.Context, class model.MachineClass) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM machines WHERE class=? AND active=1`, class).Scan(&n)
	return n, err
}

// CountActiveByClassTx is the transactional variant used when the
// printer capacity check is re-verified on the write path.
func (r *MachineRepo) CountActiveByClassTx(ctx context.Context, tx *sql.Tx, class model.MachineClass) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM machines WHERE class=? AND active=1`, class).Scan(&n)
	return n, err
}

// ListByClass returns every unit of a class ordered by id. When
// activeOnly is set, inactive units are filtered out.
func (r *MachineRepo) ListByClass(ctx context.Context, class model.MachineClass, activeOnly bool) ([]*model.Machine, error) {
	q := `SELECT ` + machineColumns + ` FROM machines WHERE class=?`
	if activeOnly {
		q += ` AND active=1`
	}
	q += ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, class)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Machine
	for rows.Next() {
		m := new(model.Machine)
		if err := rows.Scan(&m.ID, &m.Class, &m.Name, &m.Active, &m.UnitCount, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetActive toggles whether a unit accepts reservations. Existing
// reservations are untouched; staff cancel them separately when taking
// a unit down for repair.
func (r *MachineRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE machines SET active=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMachineNotFound
	}
	return nil
}

// ListSlots returns the laser slot catalog ordered by start time.
func (r *MachineRepo) ListSlots(ctx context.Context) ([]model.LaserSlot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, start_time, end_time FROM laser_slots ORDER BY start_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.LaserSlot
	for rows.Next() {
		var s model.LaserSlot
		if err := rows.Scan(&s.ID, &s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSlot appends a window to the laser slot catalog.
func (r *MachineRepo) CreateSlot(ctx context.Context, s *model.LaserSlot) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO laser_slots (start_time, end_time) VALUES (?,?)`, s.StartTime, s.EndTime)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// DeleteSlot removes a catalog window. Reservations already booked in
// the window are kept; the catalog only governs future requests.
func (r *MachineRepo) DeleteSlot(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM laser_slots WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSlotNotFound
	}
	return nil
}
