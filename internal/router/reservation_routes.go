package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-booking/internal/config"
	"github.com/iliyamo/restaurant-booking/internal/handler"
	"github.com/iliyamo/restaurant-booking/internal/middleware"
)

// RegisterReservations mounts the reservation service API under /api.
// Reservation writes are rate limited.  Overwriting a status, deleting a
// reservation and deleting a user require an ADMIN token.
func RegisterReservations(e *echo.Echo, u *handler.UserHandler, r *handler.ReservationHandler,
	jwtSecret string, limit config.RateLimitConfig, rdb *redis.Client) {
	users := e.Group("/api/users")
	users.POST("", u.Create)
	users.GET("", u.List)
	users.GET("/by-user-id/:userId", u.GetByUserID)
	users.GET("/by-email/:email", u.GetByEmail)
	users.GET("/:id", u.Get)
	users.PUT("/:id", u.Update)

	res := e.Group("/api/reservations")
	res.GET("", r.List)
	res.GET("/availability", r.CheckAvailability)
	res.GET("/user/:id", r.ListByUser)
	res.GET("/user/:id/upcoming", r.Upcoming)
	res.GET("/restaurant/:id", r.ListByRestaurant)
	res.GET("/restaurant/:id/range", r.ByDateRange)
	res.GET("/:id", r.Get)

	limited := middleware.RateLimit(limit, rdb)
	res.POST("", r.Create, limited)
	res.PUT("/:id", r.Update, limited)
	res.POST("/:id/cancel", r.Cancel, limited)

	// ADMIN only
	admin := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleAdmin),
	}
	res.PATCH("/:id/status", r.ChangeStatus, admin...)
	res.DELETE("/:id", r.Delete, admin...)
	users.DELETE("/:id", u.Delete, admin...)
}
