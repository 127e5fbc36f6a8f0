package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hanbit/makerspace-reservation/internal/model"
)

// ErrWarningNotFound is returned when a revoke finds no ledger entry to
// remove.
var ErrWarningNotFound = errors.New("warning not found")

// WarningRepo provides access to the append-only warnings ledger. The
// cached users.warning_count is adjusted by UserRepo inside the same
// transaction as every ledger write so the two can never drift apart.
type WarningRepo struct {
	db *sql.DB
}

// NewWarningRepo returns a new WarningRepo bound to the given database.
func NewWarningRepo(db *sql.DB) *WarningRepo { return &WarningRepo{db: db} }

// CreateTx appends a ledger entry inside the issuing transaction.
func (r *WarningRepo) CreateTx(ctx context.Context, tx *sql.Tx, w *model.Warning) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO warnings (user_id, message) VALUES (?,?)`, w.UserID, w.Message)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = uint64(id)
	return tx.QueryRowContext(ctx,
		`SELECT created_at FROM warnings WHERE id=?`, w.ID).Scan(&w.CreatedAt)
}

// DeleteLatestTx removes the most recent ledger entry for a user inside
// the revoking transaction and returns its id. ErrWarningNotFound means
// the ledger is already empty for the user.
func (r *WarningRepo) DeleteLatestTx(ctx context.Context, tx *sql.Tx, userID uint64) (uint64, error) {
	var id uint64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM warnings WHERE user_id=? ORDER BY id DESC LIMIT 1`, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrWarningNotFound
	}
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM warnings WHERE id=?`, id); err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteByUserTx clears the whole ledger for a user; part of the account
// deletion cascade.
func (r *WarningRepo) DeleteByUserTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM warnings WHERE user_id=?`, userID)
	return err
}

// ListByUser returns a user's ledger entries, newest first.
func (r *WarningRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Warning, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, message, created_at FROM warnings
		 WHERE user_id=? ORDER BY id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Warning, 0)
	for rows.Next() {
		var w model.Warning
		if err := rows.Scan(&w.ID, &w.UserID, &w.Message, &w.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
