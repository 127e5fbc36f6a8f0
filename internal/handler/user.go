package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hanbit/makerspace-reservation/internal/engine"
	"github.com/hanbit/makerspace-reservation/internal/repository"
)

// UserHandler covers account deletion and the staff training flag.
type UserHandler struct {
	Users  *repository.UserRepo
	Engine *engine.Engine
}

func NewUserHandler(users *repository.UserRepo, e *engine.Engine) *UserHandler {
	if users == nil || e == nil {
		panic("nil dependency passed to NewUserHandler")
	}
	return &UserHandler{Users: users, Engine: e}
}

// Delete removes an account and everything hanging off it. A member
// may delete their own account; staff may delete any.
func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if _, err := h.Engine.DeleteRoot(c.Request().Context(), principal(c), engine.RootUser, id); err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type trainingBody struct {
	Passed bool `json:"passed"`
}

// SetTraining records a safety-training result for a member.
func (h *UserHandler) SetTraining(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var body trainingBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	err := h.Users.SetTrainingPassed(c.Request().Context(), id, body.Passed)
	if errors.Is(err, repository.ErrUserNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}
