package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hanbit/makerspace-reservation/internal/model"
)

// ErrCommentNotFound is returned when a comment lookup matches no row.
var ErrCommentNotFound = errors.New("comment not found")

// refTables maps a comment's ref type to the table its RefID points
// into. The integrity engine resolves the polymorphic back-reference
// through this fixed table instead of looking models up by name at run
// time.
var refTables = map[model.RefType]string{
	model.RefInquiry:  "inquiries",
	model.RefFeedback: "feedback",
	model.RefNotice:   "notices",
}

// CommentRepo provides access to comments and their like marks. A
// comment points at exactly one thread through (ref_type, ref_id); the
// likes column caches the number of comment_likes rows.
type CommentRepo struct {
	db *sql.DB
}

// NewCommentRepo returns a new CommentRepo bound to the given database.
func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{db: db} }

// Create inserts a comment and populates its generated fields.
func (r *CommentRepo) Create(ctx context.Context, cm *model.Comment) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (content, author_id, ref_type, ref_id) VALUES (?,?,?,?)`,
		cm.Content, cm.AuthorID, cm.RefType, cm.RefID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cm.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM comments WHERE id=?`, cm.ID,
	).Scan(&cm.CreatedAt, &cm.UpdatedAt)
}

// GetByID fetches a comment by id.
func (r *CommentRepo) GetByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var cm model.Comment
	err := r.db.QueryRowContext(ctx,
		`SELECT id, content, author_id, ref_type, ref_id, likes, created_at, updated_at
		 FROM comments WHERE id=?`, id,
	).Scan(&cm.ID, &cm.Content, &cm.AuthorID, &cm.RefType, &cm.RefID, &cm.Likes, &cm.CreatedAt, &cm.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

// ListForThread returns all comments of one thread in creation order.
func (r *CommentRepo) ListForThread(ctx context.Context, refType model.RefType, refID uint64) ([]*model.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, content, author_id, ref_type, ref_id, likes, created_at, updated_at
		 FROM comments WHERE ref_type=? AND ref_id=? ORDER BY id`, refType, refID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Comment, 0)
	for rows.Next() {
		cm := new(model.Comment)
		if err := rows.Scan(&cm.ID, &cm.Content, &cm.AuthorID, &cm.RefType, &cm.RefID, &cm.Likes, &cm.CreatedAt, &cm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, cm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateByAuthor rewrites the content when the comment belongs to the
// given author.
func (r *CommentRepo) UpdateByAuthor(ctx context.Context, id, authorID uint64, content string) error {
	var dbAuthor uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT author_id FROM comments WHERE id=?`, id).Scan(&dbAuthor)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCommentNotFound
	}
	if err != nil {
		return err
	}
	if dbAuthor != authorID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE comments SET content=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, content, id)
	return err
}

// ToggleLike flips the like mark of a user on a comment and keeps the
// cached likes count in step, all in one transaction. It returns true
// when the comment ends up liked by the user.
func (r *CommentRepo) ToggleLike(ctx context.Context, commentID, userID uint64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE id=?`, commentID).Scan(&exists); err != nil {
		return false, err
	}
	if exists == 0 {
		return false, ErrCommentNotFound
	}
	var liked bool
	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comment_likes WHERE comment_id=? AND user_id=?`,
		commentID, userID).Scan(&n); err != nil {
		return false, err
	}
	if n > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM comment_likes WHERE comment_id=? AND user_id=?`, commentID, userID); err != nil {
			return false, err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE comments SET likes = likes - 1 WHERE id=? AND likes > 0`, commentID); err != nil {
			return false, err
		}
		liked = false
	} else {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO comment_likes (comment_id, user_id) VALUES (?,?)`, commentID, userID); err != nil {
			return false, err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE comments SET likes = likes + 1 WHERE id=?`, commentID); err != nil {
			return false, err
		}
		liked = true
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	committed = true
	return liked, nil
}

// GetAuthorTx returns the author of a comment inside a transaction.
func (r *CommentRepo) GetAuthorTx(ctx context.Context, tx *sql.Tx, id uint64) (uint64, error) {
	var author uint64
	err := tx.QueryRowContext(ctx,
		`SELECT author_id FROM comments WHERE id=?`, id).Scan(&author)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrCommentNotFound
	}
	return author, err
}

// DeleteTx removes one comment and its like marks inside the deleting
// transaction.
func (r *CommentRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM comment_likes WHERE comment_id=?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// DeleteForThreadTx removes every comment pointing at one thread, like
// marks included.
func (r *CommentRepo) DeleteForThreadTx(ctx context.Context, tx *sql.Tx, refType model.RefType, refID uint64) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE cl FROM comment_likes cl
		 JOIN comments c ON c.id = cl.comment_id
		 WHERE c.ref_type=? AND c.ref_id=?`, refType, refID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx,
		`DELETE FROM comments WHERE ref_type=? AND ref_id=?`, refType, refID)
	return err
}

// DeleteForThreadsByCreatorTx removes every comment attached to any
// thread of the given type authored by creatorID. The account deletion
// cascade uses it so comments from other members do not survive their
// thread.
func (r *CommentRepo) DeleteForThreadsByCreatorTx(ctx context.Context, tx *sql.Tx, refType model.RefType, creatorID uint64) error {
	table, ok := refTables[refType]
	if !ok {
		return errors.New("unknown ref type")
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE cl FROM comment_likes cl
		 JOIN comments c ON c.id = cl.comment_id
		 JOIN `+table+` t ON t.id = c.ref_id
		 WHERE c.ref_type=? AND t.creator_id=?`, refType, creatorID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx,
		`DELETE c FROM comments c
		 JOIN `+table+` t ON t.id = c.ref_id
		 WHERE c.ref_type=? AND t.creator_id=?`, refType, creatorID)
	return err
}

// DeleteByAuthorTx removes every comment a user wrote, like marks
// included; part of the account deletion cascade.
func (r *CommentRepo) DeleteByAuthorTx(ctx context.Context, tx *sql.Tx, authorID uint64) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE cl FROM comment_likes cl
		 JOIN comments c ON c.id = cl.comment_id
		 WHERE c.author_id=?`, authorID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE author_id=?`, authorID)
	return err
}

// DeleteLikesByUserTx removes the like marks a user left on other
// members' comments and walks the cached counters back down; part of
// the account deletion cascade.
func (r *CommentRepo) DeleteLikesByUserTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE comments c
		 JOIN comment_likes cl ON cl.comment_id = c.id
		 SET c.likes = c.likes - 1
		 WHERE cl.user_id=? AND c.likes > 0`, userID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM comment_likes WHERE user_id=?`, userID)
	return err
}
