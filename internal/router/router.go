// Package router wires the HTTP routes to their handlers and
// middleware. Route groups mirror the permission model: open auth
// routes, member routes behind JWT, staff routes behind the role gate.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/hanbit/makerspace-reservation/internal/config"
	"github.com/hanbit/makerspace-reservation/internal/handler"
	"github.com/hanbit/makerspace-reservation/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Reservations *handler.ReservationHandler
	Warnings     *handler.WarningHandler
	Machines     *handler.MachineHandler
	Notices      *handler.NoticeHandler
	Inquiries    *handler.InquiryHandler
	Feedback     *handler.FeedbackHandler
	Comments     *handler.CommentHandler
}

// Register mounts every route. The Redis client may be nil, in which
// case the rate limiter and response cache pass requests straight
// through.
func Register(e *echo.Echo, h Handlers, cfg *config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.Use(limiter)

	// Open auth routes.
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)

	// Everything below needs a valid access token.
	v1 := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	v1.POST("/auth/logout", h.Auth.Logout)
	v1.GET("/users/me", h.Auth.Me)
	v1.DELETE("/users/:id", h.Users.Delete)

	// Reservations and availability.
	v1.POST("/reservations/:class", h.Reservations.Allocate)
	v1.DELETE("/reservations", h.Reservations.CancelBatch)
	v1.GET("/reservations/me", h.Reservations.Mine)
	v1.GET("/availability/:class", h.Reservations.Availability, cache)

	// Machine listings and the laser catalog are readable by every
	// member; the availability cache covers the catalog too.
	v1.GET("/machines/:class", h.Machines.List, cache)
	v1.GET("/laser-slots", h.Machines.ListSlots, cache)

	// Content threads and comments.
	v1.GET("/notices", h.Notices.List)
	v1.GET("/notices/:id", h.Notices.Get)
	v1.GET("/inquiries", h.Inquiries.List)
	v1.GET("/inquiries/:id", h.Inquiries.Get)
	v1.POST("/inquiries", h.Inquiries.Create)
	v1.PUT("/inquiries/:id", h.Inquiries.Update)
	v1.DELETE("/inquiries/:id", h.Inquiries.Delete)
	v1.GET("/feedback", h.Feedback.List)
	v1.GET("/feedback/:id", h.Feedback.Get)
	v1.POST("/feedback", h.Feedback.Create)
	v1.PUT("/feedback/:id", h.Feedback.Update)
	v1.DELETE("/feedback/:id", h.Feedback.Delete)
	v1.POST("/comments", h.Comments.Create)
	v1.GET("/threads/:id/comments", h.Comments.ListForThread)
	v1.PUT("/comments/:id", h.Comments.Update)
	v1.POST("/comments/:id/like", h.Comments.ToggleLike)
	v1.DELETE("/comments/:id", h.Comments.Delete)

	// Member warning view.
	v1.GET("/users/:id/warnings", h.Warnings.List)

	// Staff-only management.
	staff := v1.Group("", middleware.RequireStaff())
	staff.POST("/users/:id/warnings", h.Warnings.Issue)
	staff.DELETE("/users/:id/warnings", h.Warnings.Revoke)
	staff.PUT("/users/:id/training", h.Users.SetTraining)
	staff.POST("/machines", h.Machines.Create)
	staff.PUT("/machines/:id/active", h.Machines.SetActive)
	staff.POST("/laser-slots", h.Machines.CreateSlot)
	staff.DELETE("/laser-slots/:id", h.Machines.DeleteSlot)
	staff.POST("/notices", h.Notices.Create)
	staff.PUT("/notices/:id", h.Notices.Update)
	staff.DELETE("/notices/:id", h.Notices.Delete)
}
