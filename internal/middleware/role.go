package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hanbit/makerspace-reservation/internal/model"
)

// RequireRole rejects requests whose token role is not in the allowed
// set. It assumes JWTAuth already ran.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// RequireStaff gates the admin and manager routes.
func RequireStaff() echo.MiddlewareFunc {
	return RequireRole(model.RoleAdmin, model.RoleManager)
}
