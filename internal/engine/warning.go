package engine

import (
	"context"
	"errors"

	"github.com/hanbit/makerspace-reservation/internal/model"
	"github.com/hanbit/makerspace-reservation/internal/repository"
)

// WarningRequest carries the staff client's view of the member's
// current warning count. The write only lands if that view is still
// accurate, so two staff members acting on the same stale screen
// cannot both win.
type WarningRequest struct {
	UserID        uint64 `json:"user_id"`
	Message       string `json:"message"`
	ExpectedCount int    `json:"count_of_warning"`
}

// IssueWarning appends a ledger entry and bumps the cached counter in
// one transaction. Returns Conflict when ExpectedCount no longer
// matches the stored counter.
func (e *Engine) IssueWarning(ctx context.Context, p Principal, req WarningRequest) (*model.Warning, error) {
	if p.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	if !p.Staff() {
		return nil, denied("staff role required")
	}
	if req.Message == "" {
		return nil, invalid("a warning message is required")
	}
	if _, err := e.Users.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, notFound("user not found")
		}
		return nil, internal(err)
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

	w := model.Warning{UserID: req.UserID, Message: req.Message}
	if err := e.Warnings.CreateTx(ctx, tx, &w); err != nil {
		return nil, internal(err)
	}
	err = e.Users.AdjustWarningCountTx(ctx, tx, req.UserID, req.ExpectedCount, +1)
	if errors.Is(err, repository.ErrStaleCount) {
		return nil, conflict("warning count changed since it was read")
	}
	if err != nil {
		return nil, internal(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, internal(err)
	}
	committed = true
	return &w, nil
}

// RevokeWarning removes the member's newest ledger entry and drops the
// cached counter, under the same optimistic guard as IssueWarning.
func (e *Engine) RevokeWarning(ctx context.Context, p Principal, req WarningRequest) error {
	if p.UserID == 0 {
		return ErrUnauthenticated
	}
	if !p.Staff() {
		return denied("staff role required")
	}
	if req.ExpectedCount < 1 {
		return invalid("no warnings to revoke")
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return internal(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	_, err = e.Warnings.DeleteLatestTx(ctx, tx, req.UserID)
	if errors.Is(err, repository.ErrWarningNotFound) {
		return notFound("no warning on record")
	}
	if err != nil {
		return internal(err)
	}
	err = e.Users.AdjustWarningCountTx(ctx, tx, req.UserID, req.ExpectedCount, -1)
	if errors.Is(err, repository.ErrStaleCount) {
		return conflict("warning count changed since it was read")
	}
	if err != nil {
		return internal(err)
	}

	if err := tx.Commit(); err != nil {
		return internal(err)
	}
	committed = true
	return nil
}

// ListWarnings returns the member's ledger, newest first. Members may
// read their own; staff may read anyone's.
func (e *Engine) ListWarnings(ctx context.Context, p Principal, userID uint64) ([]model.Warning, error) {
	if p.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	if userID != p.UserID && !p.Staff() {
		return nil, denied("not your warnings")
	}
	list, err := e.Warnings.ListByUser(ctx, userID)
	if err != nil {
		return nil, internal(err)
	}
	return list, nil
}
