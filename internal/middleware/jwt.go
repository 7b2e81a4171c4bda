package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "fmt"
    "net/http"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

func unauthorized(c echo.Context, msg string) error {
    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "UNAUTHORIZED", "message": msg})
}

// JWTAuth validates an HS256 bearer token signed with secret and stores
// its "sub" and "role" claims in the context for RequireRole and the
// rate limiter.  Tokens are minted by `bookingctl token`.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get(echo.HeaderAuthorization)
            raw, found := strings.CutPrefix(auth, "Bearer ")
            if !found || raw == "" {
                return unauthorized(c, "missing bearer token")
            }

            claims := jwt.MapClaims{}
            tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
                return []byte(secret), nil
            }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
            if err != nil || !tok.Valid {
                return unauthorized(c, "invalid token")
            }

            // sub may have been encoded as a number by older tools.
            if sub, ok := claims["sub"]; ok {
                c.Set(ctxSubject, fmt.Sprint(sub))
            }
            if role, ok := claims["role"].(string); ok {
                c.Set(ctxRole, role)
            }
            return next(c)
        }
    }
}
