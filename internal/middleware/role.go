package middleware // middleware provides shared request processing for handlers

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// RoleAdmin is the role required by administrative routes.
const RoleAdmin = "ADMIN"

// RequireRole rejects requests whose token role is not one of roles with
// 403.  It must run after JWTAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, _ := c.Get(ctxRole).(string)
            if !allowed[role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "FORBIDDEN", "message": "insufficient role"})
            }
            return next(c)
        }
    }
}
