package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/stadium-entry/internal/config"
	"github.com/iliyamo/stadium-entry/internal/handler"
	"github.com/iliyamo/stadium-entry/internal/middleware"
)

// Deps carries the optional infrastructure used by route middleware.
// A nil Redis client disables caching and rate limiting.
type Deps struct {
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
}

// RegisterRoutes installs the validator and every route of the service on e.
// Paths with a trailing slash ("/users/") are accepted as well.
func RegisterRoutes(e *echo.Echo, h *handler.Handler, d Deps) {
	e.Validator = handler.NewValidator()
	e.Pre(echomw.RemoveTrailingSlash())

	e.GET("/healthz", handler.Health)

	cache := middleware.NewRedisCache(d.Cache, d.Redis)
	invalidate := func(resources ...string) echo.MiddlewareFunc {
		return middleware.InvalidateOnWrite(d.Cache, d.Redis, resources...)
	}

	users := e.Group("/users")
	users.POST("", h.CreateUser, invalidate("users"))
	users.GET("", h.ListUsers, cache)
	users.GET("/:id", h.GetUser, cache)
	// Includes tickets, so ticket writes invalidate it too.
	users.GET("/national/:national_id", h.GetUserByNationalID, cache)

	stadiums := e.Group("/stadiums")
	stadiums.POST("", h.CreateStadium, invalidate("stadiums"))
	stadiums.GET("", h.ListStadiums, cache)
	stadiums.GET("/:id", h.GetStadium, cache)

	tickets := e.Group("/tickets")
	tickets.POST("", h.CreateTicket, invalidate("tickets", "users"))
	tickets.GET("", h.ListTickets, cache)
	tickets.GET("/:id", h.GetTicket, cache)
	tickets.GET("/:id/qr", h.GetTicketQR)

	// Verify is read-only but never cached: each gate check must see the
	// current tickets.  The token bucket slows down number guessing.
	e.POST("/verify", h.Verify, middleware.NewTokenBucket(d.RateLimit, d.Redis))
}
