// Package handler contains the Echo HTTP handlers. Handlers parse and
// shape requests, call into the engine or a repository, and map engine
// errors onto status codes; none of them contain reservation rules.
package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hanbit/makerspace-reservation/internal/engine"
	"github.com/hanbit/makerspace-reservation/internal/middleware"
)

// principal rebuilds the caller identity from the context keys the JWT
// middleware set. A zero Principal means the route was mounted without
// auth, which is a wiring bug the engine reports as Unauthenticated.
func principal(c echo.Context) engine.Principal {
	p := engine.Principal{}
	if id, ok := c.Get(middleware.CtxUserID).(uint64); ok {
		p.UserID = id
	}
	if role, ok := c.Get(middleware.CtxRole).(string); ok {
		p.Role = role
	}
	return p
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}
