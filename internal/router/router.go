// Package router registers the HTTP routes of the schedule service.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/festival-schedule/internal/config"
	"github.com/iliyamo/festival-schedule/internal/handler"
	"github.com/iliyamo/festival-schedule/internal/middleware"
)

// Handlers groups everything the routes dispatch to.
type Handlers struct {
	Health   *handler.HealthHandler
	Schedule *handler.ScheduleHandler
	Display  *handler.DisplayHandler // nil disables the display routes
	Changes  *handler.ChangeHandler
}

// Options carries the middleware settings.  A nil Redis client disables
// caching and rate limiting.
type Options struct {
	JWTSecret string
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
}

// Register wires all routes onto e.
//
//	GET  /healthz
//	GET  /v1/schedule          cached, rate limited
//	GET  /v1/schedule.ics      cached, rate limited
//	GET  /v1/display
//	PUT  /v1/display/date      admin
//	POST /v1/display/refresh   admin
//	POST /v1/admin/changes     admin
func Register(e *echo.Echo, h Handlers, opts Options) {
	e.GET("/healthz", h.Health.Health)

	public := e.Group("/v1",
		middleware.NewTokenBucket(opts.RateLimit, opts.Redis),
		middleware.NewRedisCache(opts.Cache, opts.Redis),
	)
	public.GET("/schedule", h.Schedule.GetSchedule)
	public.GET("/schedule.ics", h.Schedule.GetCalendar)

	admin := []echo.MiddlewareFunc{
		middleware.JWTAuth(opts.JWTSecret),
		middleware.RequireRole(middleware.RoleAdmin, middleware.RoleEditor),
	}

	if h.Display != nil {
		e.GET("/v1/display", h.Display.GetDisplay)
		e.PUT("/v1/display/date", h.Display.SetDate, admin...)
		e.POST("/v1/display/refresh", h.Display.Refresh, admin...)
	}

	if h.Changes != nil {
		e.POST("/v1/admin/changes", h.Changes.PostChange, admin...)
	}
}
