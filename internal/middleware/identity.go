package middleware

import "github.com/labstack/echo/v4"

// Context keys set by JWTAuth.
const (
	ctxSubject = "subject"
	ctxRole    = "role"
)

// subject returns the authenticated subject, or "anon" for requests that
// carried no token.
func subject(c echo.Context) string {
	if s, ok := c.Get(ctxSubject).(string); ok && s != "" {
		return s
	}
	return "anon"
}
