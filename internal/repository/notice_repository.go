package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hanbit/makerspace-reservation/internal/model"
)

// ErrNoticeNotFound is returned when a notice lookup matches no row.
var ErrNoticeNotFound = errors.New("notice not found")

// NoticeRepo provides access to staff announcements.
type NoticeRepo struct {
	db *sql.DB
}

func NewNoticeRepo(db *sql.DB) *NoticeRepo { return &NoticeRepo{db: db} }

// Create inserts a notice and populates its generated fields.
func (r *NoticeRepo) Create(ctx context.Context, n *model.Notice) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO notices (title, category, content, creator_id) VALUES (?,?,?,?)`,
		n.Title, n.Category, n.Content, n.CreatorID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM notices WHERE id=?`, n.ID,
	).Scan(&n.CreatedAt, &n.UpdatedAt)
}

// GetByID fetches a notice by id.
func (r *NoticeRepo) GetByID(ctx context.Context, id uint64) (*model.Notice, error) {
	var n model.Notice
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, category, content, creator_id, created_at, updated_at
		 FROM notices WHERE id=?`, id,
	).Scan(&n.ID, &n.Title, &n.Category, &n.Content, &n.CreatorID, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoticeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// List returns all notices, newest first.
func (r *NoticeRepo) List(ctx context.Context) ([]*model.Notice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, category, content, creator_id, created_at, updated_at
		 FROM notices ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Notice, 0)
	for rows.Next() {
		n := new(model.Notice)
		if err := rows.Scan(&n.ID, &n.Title, &n.Category, &n.Content, &n.CreatorID, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the mutable notice fields.
func (r *NoticeRepo) Update(ctx context.Context, id uint64, title, category, content string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notices SET title=?, category=?, content=?, updated_at=CURRENT_TIMESTAMP
		 WHERE id=?`, title, category, content, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoticeNotFound
	}
	return nil
}

// DeleteTx removes the notice row inside the deleting transaction.
// Comments pointing at the notice are intentionally left alone; see the
// integrity engine for the recorded inconsistency.
func (r *NoticeRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM notices WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoticeNotFound
	}
	return nil
}
