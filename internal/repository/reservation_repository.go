package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hanbit/makerspace-reservation/internal/model"
)

// ErrReservationNotFound is returned when a reservation lookup matches
// no row.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepo provides CRUD operations for reservations across all
// six machine classes. The occupancy key (machine_class, machine_id,
// reserve_date[, start_time, end_time]) carries no uniqueness
// constraint; callers check occupancy before opening a transaction and
// re-check it inside the transaction that inserts the row.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given
// database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, machine_class, user_id, machine_id,
	DATE_FORMAT(reserve_date, '%Y-%m-%d'), IFNULL(start_time, ''), IFNULL(end_time, ''), created_at`

func scanReservation(scan func(dest ...any) error) (model.Reservation, error) {
	var rec model.Reservation
	err := scan(&rec.ID, &rec.MachineClass, &rec.UserID, &rec.MachineID,
		&rec.Date, &rec.StartTime, &rec.EndTime, &rec.CreatedAt)
	return rec, err
}

// occupancyWhere builds the WHERE fragment and arguments for the
// logical occupancy key. Date-only classes pass empty start/end.
func occupancyWhere(class model.MachineClass, machineID uint64, date, start, end string) (string, []any) {
	q := `machine_class=? AND machine_id=? AND reserve_date=?`
	args := []any{class, machineID, date}
	if start != "" {
		q += ` AND start_time=? AND end_time=?`
		args = append(args, start, end)
	}
	return q, args
}

// Occupied reports whether a reservation already holds the given
// occupancy cell. It is the pre-transaction check of the allocation
// engine.
func (r *ReservationRepo) Occupied(ctx context.Context, class model.MachineClass, machineID uint64, date, start, end string) (bool, error) {
	where, args := occupancyWhere(class, machineID, date, start, end)
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE `+where, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// OccupiedTx re-runs the occupancy check inside the booking
// transaction, immediately before the insert. This narrows the race
// window between concurrent identical requests; it does not eliminate
// it, since no uniqueness constraint backs the key.
func (r *ReservationRepo) OccupiedTx(ctx context.Context, tx *sql.Tx, class model.MachineClass, machineID uint64, date, start, end string) (bool, error) {
	where, args := occupancyWhere(class, machineID, date, start, end)
	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE `+where, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountForDate returns how many reservations a class holds on a date,
// across all units. Used for the printer capacity rule.
func (r *ReservationRepo) CountForDate(ctx context.Context, class model.MachineClass, date string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE machine_class=? AND reserve_date=?`,
		class, date).Scan(&n)
	return n, err
}

// CountForDateTx is the transactional variant of CountForDate.
func (r *ReservationRepo) CountForDateTx(ctx context.Context, tx *sql.Tx, class model.MachineClass, date string) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE machine_class=? AND reserve_date=?`,
		class, date).Scan(&n)
	return n, err
}

// CreateTx inserts a reservation within the scope of an existing
// transaction and populates the generated ID and timestamp on the
// record. The caller must commit or roll back the transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *model.Reservation) error {
	var start, end any
	if rec.StartTime != "" {
		start, end = rec.StartTime, rec.EndTime
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (machine_class, user_id, machine_id, reserve_date, start_time, end_time)
		 VALUES (?,?,?,?,?,?)`,
		rec.MachineClass, rec.UserID, rec.MachineID, rec.Date, start, end)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return tx.QueryRowContext(ctx,
		`SELECT created_at FROM reservations WHERE id=?`, rec.ID).Scan(&rec.CreatedAt)
}

// GetByIDTx loads a reservation inside a transaction. The cancellation
// engine uses it to verify ownership and the stored date before
// deleting.
func (r *ReservationRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error) {
	rec, err := scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id=?`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrReservationNotFound
	}
	return rec, err
}

// DeleteTx removes a single reservation row inside a transaction.
func (r *ReservationRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// DeleteByUserTx removes every reservation of a user across all machine
// classes. The integrity engine calls it while cascading an account
// deletion.
func (r *ReservationRepo) DeleteByUserTx(ctx context.Context, tx *sql.Tx, userID uint64) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE user_id=?`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListForDate returns all reservations of a class on a date ordered by
// machine and start time. The availability query walks this list
// against the machine registry.
func (r *ReservationRepo) ListForDate(ctx context.Context, class model.MachineClass, date string) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE machine_class=? AND reserve_date=?
		 ORDER BY machine_id, start_time`, class, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Reservation
	for rows.Next() {
		rec, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser returns a user's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE user_id=? ORDER BY reserve_date DESC, start_time DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		rec, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
