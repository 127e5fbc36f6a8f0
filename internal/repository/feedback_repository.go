package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hanbit/makerspace-reservation/internal/model"
)

// ErrFeedbackNotFound is returned when a feedback lookup matches no row.
var ErrFeedbackNotFound = errors.New("feedback not found")

// FeedbackRepo provides access to member suggestion threads.
type FeedbackRepo struct {
	db *sql.DB
}

func NewFeedbackRepo(db *sql.DB) *FeedbackRepo { return &FeedbackRepo{db: db} }

// Create inserts a feedback thread and populates its generated fields.
func (r *FeedbackRepo) Create(ctx context.Context, f *model.Feedback) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO feedback (title, content, creator_id) VALUES (?,?,?)`,
		f.Title, f.Content, f.CreatorID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM feedback WHERE id=?`, f.ID,
	).Scan(&f.CreatedAt, &f.UpdatedAt)
}

// GetByID fetches a feedback thread by id.
func (r *FeedbackRepo) GetByID(ctx context.Context, id uint64) (*model.Feedback, error) {
	var f model.Feedback
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, content, creator_id, created_at, updated_at
		 FROM feedback WHERE id=?`, id,
	).Scan(&f.ID, &f.Title, &f.Content, &f.CreatorID, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFeedbackNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// List returns all feedback threads, newest first.
func (r *FeedbackRepo) List(ctx context.Context) ([]*model.Feedback, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, content, creator_id, created_at, updated_at
		 FROM feedback ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Feedback, 0)
	for rows.Next() {
		f := new(model.Feedback)
		if err := rows.Scan(&f.ID, &f.Title, &f.Content, &f.CreatorID, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateByCreator rewrites the mutable fields when the thread belongs
// to the given creator.
func (r *FeedbackRepo) UpdateByCreator(ctx context.Context, id, creatorID uint64, title, content string) error {
	var dbCreator uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT creator_id FROM feedback WHERE id=?`, id).Scan(&dbCreator)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrFeedbackNotFound
	}
	if err != nil {
		return err
	}
	if dbCreator != creatorID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE feedback SET title=?, content=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		title, content, id)
	return err
}

// GetCreatorTx returns the creator of a feedback thread inside a
// transaction.
func (r *FeedbackRepo) GetCreatorTx(ctx context.Context, tx *sql.Tx, id uint64) (uint64, error) {
	var creator uint64
	err := tx.QueryRowContext(ctx,
		`SELECT creator_id FROM feedback WHERE id=?`, id).Scan(&creator)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrFeedbackNotFound
	}
	return creator, err
}

// DeleteTx removes the feedback row inside the deleting transaction.
func (r *FeedbackRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM feedback WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}

// DeleteByCreatorTx removes every feedback thread authored by a user;
// part of the account deletion cascade.
func (r *FeedbackRepo) DeleteByCreatorTx(ctx context.Context, tx *sql.Tx, creatorID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM feedback WHERE creator_id=?`, creatorID)
	return err
}
