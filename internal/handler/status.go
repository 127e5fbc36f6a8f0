package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hanbit/makerspace-reservation/internal/engine"
)

// httpStatus maps an engine error onto a status code. The engine never
// speaks HTTP; this is the only place the translation happens.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, engine.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, engine.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// engineError writes the error as JSON. Internal errors hide their
// cause from the client; everything else carries the engine's message.
func engineError(c echo.Context, err error) error {
	status := httpStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
		msg = "internal error"
	}
	return c.JSON(status, echo.Map{"error": msg})
}
