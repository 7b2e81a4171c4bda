package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/restaurant-booking/internal/handler"
	"github.com/iliyamo/restaurant-booking/internal/metrics"
)

// New returns an Echo instance with the middleware both services share:
// panic recovery, request ids, access logging and CORS for corsOrigin.
func New(corsOrigin string, debug bool) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetHeader(`{"time":"${time_rfc3339}","level":"${level}","file":"${short_file}","line":"${line}"}`)
	if debug {
		e.Logger.SetLevel(log.DEBUG)
	} else {
		e.Logger.SetLevel(log.INFO)
	}

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.LoggerWithConfig(echomw.LoggerConfig{
		Skipper: func(c echo.Context) bool { return c.Path() == "/healthz" || c.Path() == "/metrics" },
	}))
	e.Use(echo.WrapMiddleware(handlers.CORS(
		handlers.AllowedOrigins([]string{corsOrigin}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"}),
	)))
	return e
}

// RegisterOps registers the unauthenticated operational endpoints shared
// by both services: the health probe and the Prometheus scrape route.
func RegisterOps(e *echo.Echo, service string, db *sql.DB) {
	e.GET("/healthz", handler.Health(service, db))
	e.GET("/metrics", metrics.Handler())
}
