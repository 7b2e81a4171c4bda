package handler // declare the package name; contains HTTP handlers

import (
    "context"
    "database/sql"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
)

// Health is the liveness probe used by load balancers and `bookingctl
// health`.  It answers 200 with the service name as long as the process
// serves requests, and reports the database as "down" when db is set and
// does not answer a ping within two seconds.
func Health(service string, db *sql.DB) echo.HandlerFunc {
    return func(c echo.Context) error {
        body := echo.Map{"status": "ok", "service": service}
        if db != nil {
            ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
            defer cancel()
            if err := db.PingContext(ctx); err != nil {
                body["database"] = "down"
                return c.JSON(http.StatusServiceUnavailable, body)
            }
            body["database"] = "up"
        }
        return c.JSON(http.StatusOK, body)
    }
}
