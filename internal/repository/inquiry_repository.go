package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hanbit/makerspace-reservation/internal/model"
)

// ErrInquiryNotFound is returned when an inquiry lookup matches no row.
var ErrInquiryNotFound = errors.New("inquiry not found")

// InquiryRepo provides access to member Q&A threads.
type InquiryRepo struct {
	db *sql.DB
}

func NewInquiryRepo(db *sql.DB) *InquiryRepo { return &InquiryRepo{db: db} }

// Create inserts an inquiry and populates its generated fields.
func (r *InquiryRepo) Create(ctx context.Context, q *model.Inquiry) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO inquiries (title, category, content, creator_id) VALUES (?,?,?,?)`,
		q.Title, q.Category, q.Content, q.CreatorID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	q.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM inquiries WHERE id=?`, q.ID,
	).Scan(&q.CreatedAt, &q.UpdatedAt)
}

// GetByID fetches an inquiry by id.
func (r *InquiryRepo) GetByID(ctx context.Context, id uint64) (*model.Inquiry, error) {
	var q model.Inquiry
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, category, content, creator_id, created_at, updated_at
		 FROM inquiries WHERE id=?`, id,
	).Scan(&q.ID, &q.Title, &q.Category, &q.Content, &q.CreatorID, &q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInquiryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// List returns all inquiries, newest first.
func (r *InquiryRepo) List(ctx context.Context) ([]*model.Inquiry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, category, content, creator_id, created_at, updated_at
		 FROM inquiries ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Inquiry, 0)
	for rows.Next() {
		q := new(model.Inquiry)
		if err := rows.Scan(&q.ID, &q.Title, &q.Category, &q.Content, &q.CreatorID, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateByCreator rewrites the mutable fields when the inquiry belongs
// to the given creator. sql.ErrNoRows distinguishes missing from
// ErrForbidden for foreign ownership.
func (r *InquiryRepo) UpdateByCreator(ctx context.Context, id, creatorID uint64, title, category, content string) error {
	var dbCreator uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT creator_id FROM inquiries WHERE id=?`, id).Scan(&dbCreator)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInquiryNotFound
	}
	if err != nil {
		return err
	}
	if dbCreator != creatorID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE inquiries SET title=?, category=?, content=?, updated_at=CURRENT_TIMESTAMP
		 WHERE id=?`, title, category, content, id)
	return err
}

// GetCreatorTx returns the creator of an inquiry inside a transaction.
// The integrity engine uses it for its ownership check before cascading.
func (r *InquiryRepo) GetCreatorTx(ctx context.Context, tx *sql.Tx, id uint64) (uint64, error) {
	var creator uint64
	err := tx.QueryRowContext(ctx,
		`SELECT creator_id FROM inquiries WHERE id=?`, id).Scan(&creator)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrInquiryNotFound
	}
	return creator, err
}

// DeleteTx removes the inquiry row inside the deleting transaction.
// Dependent comments are removed by the integrity engine first.
func (r *InquiryRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM inquiries WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInquiryNotFound
	}
	return nil
}

// DeleteByCreatorTx removes every inquiry authored by a user; part of
// the account deletion cascade.
func (r *InquiryRepo) DeleteByCreatorTx(ctx context.Context, tx *sql.Tx, creatorID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM inquiries WHERE creator_id=?`, creatorID)
	return err
}
