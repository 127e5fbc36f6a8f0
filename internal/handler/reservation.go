package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hanbit/makerspace-reservation/internal/engine"
	"github.com/hanbit/makerspace-reservation/internal/model"
	"github.com/hanbit/makerspace-reservation/internal/queue"
	notifier "github.com/hanbit/makerspace-reservation/internal/service"
)

// ReservationHandler is the HTTP face of the allocation, cancellation
// and availability operations.
type ReservationHandler struct {
	Engine *engine.Engine
}

func NewReservationHandler(e *engine.Engine) *ReservationHandler {
	if e == nil {
		panic("nil engine passed to NewReservationHandler")
	}
	return &ReservationHandler{Engine: e}
}

// Allocate books one machine class for the caller. The class comes
// from the path; the body shape varies by class (slot batch for laser,
// time window for saw and vacuum former, date only for the rest).
func (h *ReservationHandler) Allocate(c echo.Context) error {
	class, ok := model.ParseMachineClass(c.Param("class"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown machine class"})
	}
	var req engine.AllocateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	records, err := h.Engine.Allocate(c.Request().Context(), class, principal(c), req)
	if err != nil {
		return engineError(c, err)
	}

	h.notifyConfirmed(class, records)
	return c.JSON(http.StatusCreated, echo.Map{"reservations": reservationViews(records)})
}

type cancelRequest struct {
	Items []engine.CancelItem `json:"items"`
}

// CancelBatch removes a batch of reservations, all or nothing.
func (h *ReservationHandler) CancelBatch(c echo.Context) error {
	var req cancelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	cancelled, err := h.Engine.Cancel(c.Request().Context(), principal(c), req.Items)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"cancelled": cancelled})
}

// Availability reports the occupancy view for a class and date.
func (h *ReservationHandler) Availability(c echo.Context) error {
	class, ok := model.ParseMachineClass(c.Param("class"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown machine class"})
	}
	view, err := h.Engine.QueryAvailability(c.Request().Context(), class, c.QueryParam("date"))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Mine lists the caller's reservations, newest date first.
func (h *ReservationHandler) Mine(c echo.Context) error {
	records, err := h.Engine.ListReservations(c.Request().Context(), principal(c))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": reservationViews(records)})
}

// notifyConfirmed publishes one event for the committed batch. The
// request already succeeded; a broker failure only costs the email.
func (h *ReservationHandler) notifyConfirmed(class model.MachineClass, records []model.Reservation) {
	if len(records) == 0 {
		return
	}
	ev := queue.ReservationConfirmedEvent{
		UserID:       records[0].UserID,
		MachineClass: string(class),
		MachineID:    records[0].MachineID,
		Date:         records[0].Date,
		ConfirmedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	for _, rec := range records {
		if rec.StartTime != "" {
			ev.Windows = append(ev.Windows, rec.StartTime+"-"+rec.EndTime)
		}
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = notifier.PublishReservationConfirmed(ctx, ev)
	}()
}

type reservationView struct {
	ID           uint64 `json:"id"`
	MachineClass string `json:"machine_class"`
	MachineID    uint64 `json:"machine_id"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
}

func reservationViews(records []model.Reservation) []reservationView {
	out := make([]reservationView, 0, len(records))
	for _, rec := range records {
		out = append(out, reservationView{
			ID:           rec.ID,
			MachineClass: string(rec.MachineClass),
			MachineID:    rec.MachineID,
			Date:         rec.Date,
			StartTime:    rec.StartTime,
			EndTime:      rec.EndTime,
		})
	}
	return out
}
