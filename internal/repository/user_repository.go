package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/hanbit/makerspace-reservation/internal/model"
	"github.com/hanbit/makerspace-reservation/internal/utils"
)

// UserRepo provides access to the users table, including the embedded
// quota and warning counters that the allocation, cancellation and
// warning engines mutate transactionally.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var (
	ErrEmailExists   = errors.New("email already exists")
	ErrStudentExists = errors.New("student id already exists")
	ErrUserNotFound  = errors.New("user not found")
)

const userColumns = `id, student_id, username, email, password_hash, role, year,
	training_passed, warning_count, laser_quota_week, laser_quota_day,
	is_active, created_at, updated_at`

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.StudentID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Role, &u.Year, &u.TrainingPassed, &u.WarningCount,
		&u.LaserQuotaWeek, &u.LaserQuotaDay, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

// Create inserts a user and returns its ID. The password is hashed with
// bcrypt at the given cost. Quota counters start at the defaults handed
// in by the caller so staff accounts can be created with zero quota.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, cost int) (uint64, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (student_id, username, email, password_hash, role, year,
		    training_passed, warning_count, laser_quota_week, laser_quota_day)
		 VALUES (?,?,?,?,?,?,?,0,?,?)`,
		u.StudentID, u.Username, u.Email, hash, u.Role, u.Year,
		u.TrainingPassed, u.LaserQuotaWeek, u.LaserQuotaDay)
	if err != nil {
		low := strings.ToLower(err.Error())
		if strings.Contains(low, "1062") {
			if strings.Contains(low, "student") {
				return 0, ErrStudentExists
			}
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = uint64(id)
	return u.ID, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email=? LIMIT 1`, email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=? LIMIT 1`, id))
}

// SetTrainingPassed flips the training flag for a user. Staff call this
// after a member completes the safety course.
func (r *UserRepo) SetTrainingPassed(ctx context.Context, id uint64, passed bool) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET training_passed=? WHERE id=?`, passed, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ConsumeLaserQuotaTx decrements both laser quota counters by n inside
// the booking transaction. The WHERE clause re-verifies that the
// counters can absorb the decrement, which narrows (but does not close)
// the window between the engine's pre-check and the commit. When the
// guarded update matches no row the quota was consumed concurrently and
// ErrQuotaExhausted is returned so the whole booking aborts.
func (r *UserRepo) ConsumeLaserQuotaTx(ctx context.Context, tx *sql.Tx, userID uint64, n int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE users SET laser_quota_week = laser_quota_week - ?,
		                  laser_quota_day  = laser_quota_day - ?
		 WHERE id = ? AND laser_quota_week >= ? AND laser_quota_day >= ?`,
		n, n, userID, n, n)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrQuotaExhausted
	}
	return nil
}

// RestoreLaserQuotaTx adds n back to both laser quota counters inside a
// cancellation transaction. The restore is unconditional: a reservation
// being cancelled implies the matching decrement succeeded earlier.
func (r *UserRepo) RestoreLaserQuotaTx(ctx context.Context, tx *sql.Tx, userID uint64, n int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE users SET laser_quota_week = laser_quota_week + ?,
		                  laser_quota_day  = laser_quota_day + ?
		 WHERE id = ?`, n, n, userID)
	return err
}

// AdjustWarningCountTx moves the cached warning counter by delta, but
// only when the stored value still equals expected. A zero row count
// means another staff action raced this one; the caller must abort with
// ErrStaleCount so the ledger and the cache never drift apart.
func (r *UserRepo) AdjustWarningCountTx(ctx context.Context, tx *sql.Tx, userID uint64, expected, delta int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE users SET warning_count = warning_count + ?
		 WHERE id = ? AND warning_count = ?`, delta, userID, expected)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrStaleCount
	}
	return nil
}

// ResetLaserQuotas rewrites the laser counters for every student. The
// periodic reset job (external to this service's request path) calls it
// at week and day boundaries.
func (r *UserRepo) ResetLaserQuotas(ctx context.Context, week, day int) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET laser_quota_week=?, laser_quota_day=? WHERE role=?`,
		week, day, model.RoleStudent)
	return err
}

// DeleteTx removes the user row itself. Dependent records are cleared
// beforehand by the integrity engine within the same transaction.
func (r *UserRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
