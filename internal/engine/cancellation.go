package engine

import (
	"context"
	"errors"

	"github.com/hanbit/makerspace-reservation/internal/model"
	"github.com/hanbit/makerspace-reservation/internal/repository"
)

// CancelItem identifies one reservation in a batch cancellation. The
// class and date travel with the id so the engine can verify the
// caller is cancelling what they think they are cancelling.
type CancelItem struct {
	ID    uint64 `json:"id"`
	Class string `json:"machine_class"`
	Date  string `json:"date"`
}

// Cancel removes a batch of reservations in one transaction and
// returns the ids it deleted. Every item must exist, belong to the
// caller (staff may cancel anyone's), and match the class and date the
// caller supplied; one bad item fails the whole batch and nothing is
// deleted. Cancelled laser slots are credited back to the owner's
// weekly and daily quota.
func (e *Engine) Cancel(ctx context.Context, p Principal, items []CancelItem) ([]uint64, error) {
	if p.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	if len(items) == 0 {
		return nil, invalid("nothing to cancel")
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

	// Laser credits accumulate per owner so a mixed batch refunds in
	// one UPDATE per user.
	credits := map[uint64]int{}
	cancelled := make([]uint64, 0, len(items))

	for _, it := range items {
		class, ok := model.ParseMachineClass(it.Class)
		if !ok {
			return nil, invalid("unknown machine class")
		}
		rec, err := e.Reservations.GetByIDTx(ctx, tx, it.ID)
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, notFound("reservation not found")
		}
		if err != nil {
			return nil, internal(err)
		}
		if rec.UserID != p.UserID && !p.Staff() {
			return nil, denied("not your reservation")
		}
		if rec.MachineClass != class || rec.Date != it.Date {
			return nil, invalid("reservation does not match the supplied class and date")
		}
		if err := e.Reservations.DeleteTx(ctx, tx, rec.ID); err != nil {
			return nil, internal(err)
		}
		if rec.MachineClass == model.ClassLaser {
			credits[rec.UserID]++
		}
		cancelled = append(cancelled, rec.ID)
	}

	for userID, n := range credits {
		if err := e.Users.RestoreLaserQuotaTx(ctx, tx, userID, n); err != nil {
			return nil, internal(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, internal(err)
	}
	committed = true
	return cancelled, nil
}
