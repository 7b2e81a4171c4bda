package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-booking/internal/config"
	"github.com/iliyamo/restaurant-booking/internal/utils"
)

const secret = "test-secret"

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func do(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func token(t *testing.T, role string, ttl time.Duration) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, "ops", role, ttl)
	require.NoError(t, err)
	return tok.Token
}

func adminEcho() *echo.Echo {
	e := echo.New()
	g := e.Group("/admin", JWTAuth(secret), RequireRole(RoleAdmin))
	g.DELETE("/thing", func(c echo.Context) error {
		return c.String(http.StatusOK, subject(c))
	})
	return e
}

func TestJWTAuth_RejectsMissingAndInvalidTokens(t *testing.T) {
	e := adminEcho()

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodDelete, "/admin/thing", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodDelete, "/admin/thing", "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodDelete, "/admin/thing", token(t, RoleAdmin, -time.Minute)).Code)

	other, err := utils.NewAccessToken("other-secret", "ops", RoleAdmin, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodDelete, "/admin/thing", other.Token).Code)
}

func TestRequireRole(t *testing.T) {
	e := adminEcho()

	assert.Equal(t, http.StatusForbidden, do(e, http.MethodDelete, "/admin/thing", token(t, "CUSTOMER", time.Minute)).Code)

	rec := do(e, http.MethodDelete, "/admin/thing", token(t, RoleAdmin, time.Minute))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops", rec.Body.String())
}

func TestResponseCache_HitAfterMiss(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.CacheConfig{
		Enabled: true, Methods: map[string]bool{http.MethodGet: true},
		TTL: time.Minute, KeyStrategy: "path_query", Prefix: "test", MaxBodyBytes: 1024,
	}
	calls := 0
	e := echo.New()
	e.GET("/restaurants", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"calls": calls})
	}, ResponseCache(cfg, rdb))

	first := do(e, http.MethodGet, "/restaurants?sort=note", "")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := do(e, http.MethodGet, "/restaurants?sort=note", "")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, echo.MIMEApplicationJSON, second.Header().Get(echo.HeaderContentType))
	assert.Equal(t, 1, calls)

	third := do(e, http.MethodGet, "/restaurants?sort=prix_asc", "")
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestResponseCache_SkipsErrorsAndLargeBodies(t *testing.T) {
	mr, rdb := newRedis(t)
	cfg := config.CacheConfig{
		Enabled: true, Methods: map[string]bool{http.MethodGet: true},
		TTL: time.Minute, Prefix: "test", MaxBodyBytes: 8,
	}
	e := echo.New()
	e.GET("/missing", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "NOT_FOUND"})
	}, ResponseCache(cfg, rdb))
	e.GET("/large", func(c echo.Context) error {
		return c.String(http.StatusOK, "a body well over eight bytes")
	}, ResponseCache(cfg, rdb))

	do(e, http.MethodGet, "/missing", "")
	do(e, http.MethodGet, "/large", "")
	assert.Empty(t, mr.Keys())
}

func TestInvalidateCache_DropsEntriesAfterWrite(t *testing.T) {
	mr, rdb := newRedis(t)
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{http.MethodGet: true}, TTL: time.Minute, Prefix: "test"}
	e := echo.New()
	e.GET("/restaurants", func(c echo.Context) error { return c.String(http.StatusOK, "list") }, ResponseCache(cfg, rdb))
	e.POST("/restaurants", func(c echo.Context) error { return c.NoContent(http.StatusCreated) }, InvalidateCache(cfg, rdb))
	e.PUT("/restaurants", func(c echo.Context) error { return c.NoContent(http.StatusBadRequest) }, InvalidateCache(cfg, rdb))

	do(e, http.MethodGet, "/restaurants", "")
	require.Len(t, mr.Keys(), 1)

	do(e, http.MethodPut, "/restaurants", "")
	assert.Len(t, mr.Keys(), 1, "failed writes keep the cache")

	do(e, http.MethodPost, "/restaurants", "")
	assert.Empty(t, mr.Keys())
}

func TestRateLimit_BlocksWhenBucketEmpty(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.RateLimitConfig{
		Enabled: true, Capacity: 2, RefillTokens: 1, RefillInterval: time.Hour,
		TTL: 2 * time.Hour, KeyStrategy: "ip", Prefix: "rl",
	}
	e := echo.New()
	e.POST("/reservations", func(c echo.Context) error { return c.NoContent(http.StatusCreated) }, RateLimit(cfg, rdb))

	assert.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/reservations", "").Code)
	rec := do(e, http.MethodPost, "/reservations", "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = do(e, http.MethodPost, "/reservations", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimit_PassesWithoutRedis(t *testing.T) {
	e := echo.New()
	e.POST("/reservations", func(c echo.Context) error { return c.NoContent(http.StatusCreated) },
		RateLimit(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil))
	for range 3 {
		assert.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/reservations", "").Code)
	}
}
