package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-booking/internal/config"
	"github.com/iliyamo/restaurant-booking/internal/handler"
	"github.com/iliyamo/restaurant-booking/internal/middleware"
)

// RegisterRestaurants mounts the restaurant service API under /api.
// Reads are served through the Redis response cache; every successful
// write invalidates it.  Creating, editing and deleting restaurants
// requires an ADMIN token, while reviews are open to anyone.
func RegisterRestaurants(e *echo.Echo, h *handler.RestaurantHandler, jwtSecret string, cache config.CacheConfig, rdb *redis.Client) {
	read := e.Group("/api", middleware.ResponseCache(cache, rdb))
	read.GET("/restaurants", h.List)
	read.GET("/restaurants/search", h.Search)
	read.GET("/restaurants/search/name/:name", h.SearchByName)
	read.GET("/restaurants/cuisine/:type", h.ByCuisine)
	read.GET("/restaurants/top-rated", h.TopRated)
	read.GET("/restaurants/cuisines", h.Cuisines)
	read.GET("/restaurants/popular", h.Popular)
	read.GET("/restaurants/nearby", h.Nearby)
	read.GET("/restaurants/recommendations", h.Recommendations)
	read.GET("/restaurants/filters", h.Filters)
	read.GET("/restaurants/:id/reviews", h.ListReviews)
	read.GET("/restaurants/:id/reviews/top", h.LatestReviews)

	// Uncached: a single restaurant, its existence and availability feed
	// reservation decisions, stats depend on the clock.
	e.GET("/api/restaurants/:id", h.Get)
	e.GET("/api/restaurants/:id/exists", h.Exists)
	e.GET("/api/restaurants/:id/availability", h.CheckAvailability)
	e.GET("/api/restaurants/stats", h.Stats)
	e.POST("/api/restaurants/search", h.SearchPost)

	invalidate := middleware.InvalidateCache(cache, rdb)
	e.POST("/api/reviews", h.AddReview, invalidate)

	admin := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleAdmin),
		invalidate,
	}
	e.POST("/api/restaurants", h.Create, admin...)
	e.PUT("/api/restaurants/:id", h.Update, admin...)
	e.DELETE("/api/restaurants/:id", h.Delete, admin...)
}
