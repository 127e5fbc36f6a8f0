package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hanbit/makerspace-reservation/internal/engine"
	"github.com/hanbit/makerspace-reservation/internal/queue"
	notifier "github.com/hanbit/makerspace-reservation/internal/service"
)

// WarningHandler exposes the staff warning ledger.
type WarningHandler struct {
	Engine *engine.Engine
}

func NewWarningHandler(e *engine.Engine) *WarningHandler {
	if e == nil {
		panic("nil engine passed to NewWarningHandler")
	}
	return &WarningHandler{Engine: e}
}

type warningBody struct {
	Message       string `json:"message"`
	ExpectedCount int    `json:"count_of_warning"`
}

// Issue appends a warning to the member named in the path.
func (h *WarningHandler) Issue(c echo.Context) error {
	userID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var body warningBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	w, err := h.Engine.IssueWarning(c.Request().Context(), principal(c), engine.WarningRequest{
		UserID:        userID,
		Message:       body.Message,
		ExpectedCount: body.ExpectedCount,
	})
	if err != nil {
		return engineError(c, err)
	}

	ev := queue.WarningIssuedEvent{
		UserID:   w.UserID,
		Message:  w.Message,
		IssuedAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = notifier.PublishWarningIssued(ctx, ev)
	}()

	return c.JSON(http.StatusCreated, echo.Map{"id": w.ID})
}

// Revoke removes the member's newest warning.
func (h *WarningHandler) Revoke(c echo.Context) error {
	userID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var body warningBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	err := h.Engine.RevokeWarning(c.Request().Context(), principal(c), engine.WarningRequest{
		UserID:        userID,
		ExpectedCount: body.ExpectedCount,
	})
	if err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns a member's ledger.
func (h *WarningHandler) List(c echo.Context) error {
	userID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	list, err := h.Engine.ListWarnings(c.Request().Context(), principal(c), userID)
	if err != nil {
		return engineError(c, err)
	}
	views := make([]echo.Map, 0, len(list))
	for _, w := range list {
		views = append(views, echo.Map{
			"id":         w.ID,
			"message":    w.Message,
			"created_at": w.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"warnings": views})
}
