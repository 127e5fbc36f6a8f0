package engine

import (
	"database/sql"

	"github.com/hanbit/makerspace-reservation/internal/calendar"
	"github.com/hanbit/makerspace-reservation/internal/model"
	"github.com/hanbit/makerspace-reservation/internal/repository"
)

// Principal is the already-resolved identity of the caller. The JWT
// middleware builds it; the engine never parses credentials itself.
type Principal struct {
	UserID uint64
	Role   string
}

// Staff reports whether the principal may perform staff operations
// (warnings, notices, machine management).
func (p Principal) Staff() bool {
	return p.Role == model.RoleAdmin || p.Role == model.RoleManager
}

// Engine bundles the repositories and the calendar evaluator behind the
// reservation core. All multi-record operations run as one explicit
// transaction on DB with the usual commit guard; repositories receive
// the *sql.Tx through their Tx method variants.
type Engine struct {
	DB           *sql.DB
	Users        *repository.UserRepo
	Machines     *repository.MachineRepo
	Reservations *repository.ReservationRepo
	Warnings     *repository.WarningRepo
	Tokens       *repository.TokenRepo
	Notices      *repository.NoticeRepo
	Inquiries    *repository.InquiryRepo
	Feedback     *repository.FeedbackRepo
	Comments     *repository.CommentRepo
	Calendar     *calendar.Evaluator
}

// New constructs an Engine and panics on a nil dependency, mirroring
// how handlers guard their repositories at startup.
func New(db *sql.DB, users *repository.UserRepo, machines *repository.MachineRepo,
	reservations *repository.ReservationRepo, warnings *repository.WarningRepo,
	tokens *repository.TokenRepo, notices *repository.NoticeRepo,
	inquiries *repository.InquiryRepo, feedback *repository.FeedbackRepo,
	comments *repository.CommentRepo, cal *calendar.Evaluator) *Engine {
	if db == nil || users == nil || machines == nil || reservations == nil ||
		warnings == nil || tokens == nil || notices == nil || inquiries == nil ||
		feedback == nil || comments == nil || cal == nil {
		panic("nil dependency passed to engine.New")
	}
	return &Engine{
		DB:           db,
		Users:        users,
		Machines:     machines,
		Reservations: reservations,
		Warnings:     warnings,
		Tokens:       tokens,
		Notices:      notices,
		Inquiries:    inquiries,
		Feedback:     feedback,
		Comments:     comments,
		Calendar:     cal,
	}
}
