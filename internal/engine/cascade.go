package engine

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hanbit/makerspace-reservation/internal/model"
	"github.com/hanbit/makerspace-reservation/internal/repository"
)

// RootType names an entity whose deletion fans out to dependent rows.
type RootType string

const (
	RootUser     RootType = "USER"
	RootInquiry  RootType = "INQUIRY"
	RootFeedback RootType = "FEEDBACK"
	RootNotice   RootType = "NOTICE"
	RootComment  RootType = "COMMENT"
)

// ParseRootType maps a wire value onto a RootType.
func ParseRootType(s string) (RootType, error) {
	switch RootType(s) {
	case RootUser, RootInquiry, RootFeedback, RootNotice, RootComment:
		return RootType(s), nil
	}
	return "", errors.New("unknown root type")
}

// DeleteRoot removes a root entity and everything that depends on it
// in one transaction. The cascade graph lives entirely in this file
// rather than in per-entity hooks, so what a delete touches is
// readable in one place.
//
// Two asymmetries are kept on purpose because they match observed
// behavior: deleting a notice leaves its comments behind, and
// deleting a comment does not touch its parent thread.
func (e *Engine) DeleteRoot(ctx context.Context, p Principal, root RootType, id uint64) (uint64, error) {
	if p.UserID == 0 {
		return 0, ErrUnauthenticated
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, internal(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	switch root {
	case RootUser:
		err = e.deleteUserTx(ctx, tx, p, id)
	case RootInquiry:
		err = e.deleteInquiryTx(ctx, tx, p, id)
	case RootFeedback:
		err = e.deleteFeedbackTx(ctx, tx, p, id)
	case RootNotice:
		err = e.deleteNoticeTx(ctx, tx, p, id)
	case RootComment:
		err = e.deleteCommentTx(ctx, tx, p, id)
	default:
		err = invalid("unknown root type")
	}
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, internal(err)
	}
	committed = true
	return id, nil
}

// deleteUserTx is the widest cascade: the member's reservations,
// warnings, refresh tokens, authored threads (and the comments those
// threads hold), authored comments elsewhere, and like marks all go
// with the account.
func (e *Engine) deleteUserTx(ctx context.Context, tx *sql.Tx, p Principal, userID uint64) error {
	if userID != p.UserID && !p.Staff() {
		return denied("not your account")
	}
	if _, err := e.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return notFound("user not found")
		}
		return internal(err)
	}

	// Comments hanging off the member's own threads go first, while
	// the threads still exist to join against.
	if err := e.Comments.DeleteForThreadsByCreatorTx(ctx, tx, model.RefInquiry, userID); err != nil {
		return internal(err)
	}
	if err := e.Comments.DeleteForThreadsByCreatorTx(ctx, tx, model.RefFeedback, userID); err != nil {
		return internal(err)
	}
	if err := e.Comments.DeleteByAuthorTx(ctx, tx, userID); err != nil {
		return internal(err)
	}
	if err := e.Comments.DeleteLikesByUserTx(ctx, tx, userID); err != nil {
		return internal(err)
	}
	if err := e.Inquiries.DeleteByCreatorTx(ctx, tx, userID); err != nil {
		return internal(err)
	}
	if err := e.Feedback.DeleteByCreatorTx(ctx, tx, userID); err != nil {
		return internal(err)
	}
	if _, err := e.Reservations.DeleteByUserTx(ctx, tx, userID); err != nil {
		return internal(err)
	}
	if err := e.Warnings.DeleteByUserTx(ctx, tx, userID); err != nil {
		return internal(err)
	}
	if err := e.Tokens.DeleteByUserTx(ctx, tx, userID); err != nil {
		return internal(err)
	}
	if err := e.Users.DeleteTx(ctx, tx, userID); err != nil {
		return internal(err)
	}
	return nil
}

func (e *Engine) deleteInquiryTx(ctx context.Context, tx *sql.Tx, p Principal, id uint64) error {
	creator, err := e.Inquiries.GetCreatorTx(ctx, tx, id)
	if errors.Is(err, repository.ErrInquiryNotFound) {
		return notFound("inquiry not found")
	}
	if err != nil {
		return internal(err)
	}
	if creator != p.UserID && !p.Staff() {
		return denied("not your inquiry")
	}
	if err := e.Comments.DeleteForThreadTx(ctx, tx, model.RefInquiry, id); err != nil {
		return internal(err)
	}
	return wrapDeleteErr(e.Inquiries.DeleteTx(ctx, tx, id), "inquiry not found")
}

func (e *Engine) deleteFeedbackTx(ctx context.Context, tx *sql.Tx, p Principal, id uint64) error {
	creator, err := e.Feedback.GetCreatorTx(ctx, tx, id)
	if errors.Is(err, repository.ErrFeedbackNotFound) {
		return notFound("feedback not found")
	}
	if err != nil {
		return internal(err)
	}
	if creator != p.UserID && !p.Staff() {
		return denied("not your feedback")
	}
	if err := e.Comments.DeleteForThreadTx(ctx, tx, model.RefFeedback, id); err != nil {
		return internal(err)
	}
	return wrapDeleteErr(e.Feedback.DeleteTx(ctx, tx, id), "feedback not found")
}

// deleteNoticeTx removes only the notice row. Its comments keep their
// back-reference and become unreachable through the thread listing.
func (e *Engine) deleteNoticeTx(ctx context.Context, tx *sql.Tx, p Principal, id uint64) error {
	if !p.Staff() {
		return denied("staff role required")
	}
	return wrapDeleteErr(e.Notices.DeleteTx(ctx, tx, id), "notice not found")
}

func (e *Engine) deleteCommentTx(ctx context.Context, tx *sql.Tx, p Principal, id uint64) error {
	author, err := e.Comments.GetAuthorTx(ctx, tx, id)
	if errors.Is(err, repository.ErrCommentNotFound) {
		return notFound("comment not found")
	}
	if err != nil {
		return internal(err)
	}
	if author != p.UserID && !p.Staff() {
		return denied("not your comment")
	}
	return wrapDeleteErr(e.Comments.DeleteTx(ctx, tx, id), "comment not found")
}

func wrapDeleteErr(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrInquiryNotFound),
		errors.Is(err, repository.ErrFeedbackNotFound),
		errors.Is(err, repository.ErrNoticeNotFound),
		errors.Is(err, repository.ErrCommentNotFound):
		return notFound(msg)
	default:
		return internal(err)
	}
}
