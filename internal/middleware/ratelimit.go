package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-booking/internal/config"
)

// tokenBucket refills capacity-bounded tokens in whole intervals and
// takes one per call.  Returns {allowed, remaining, retry_after_ms}.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local interval = tonumber(ARGV[4])
local ttl = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(state[1])
local ts = tonumber(state[2])
if tokens == nil or ts == nil then
    tokens = capacity
    ts = now
end

if interval > 0 and refill > 0 then
    local n = math.floor(math.max(0, now - ts) / interval)
    if n > 0 then
        tokens = math.min(capacity, tokens + n * refill)
        ts = ts + n * interval
    end
end

local allowed = 0
local retry = 0
if tokens > 0 then
    allowed = 1
    tokens = tokens - 1
else
    retry = math.max(0, interval - (now - ts))
end

redis.call('HSET', key, 'tokens', tokens, 'ts', ts)
redis.call('EXPIRE', key, ttl)
return {allowed, tokens, retry}
`)

// RateLimit throttles reservation writes with a per-key token bucket kept
// in Redis.  When Redis is absent or failing, requests pass.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg, c)
			res, err := tokenBucket.Run(c.Request().Context(), rdb, []string{key},
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL/time.Second),
			).Int64Slice()
			if err != nil || len(res) != 3 {
				if cfg.Debug {
					c.Logger().Warnf("ratelimit: key=%s: %v", key, err)
				}
				return next(c)
			}
			allowed, remaining, retryMs := res[0] == 1, res[1], res[2]

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			if allowed {
				return next(c)
			}
			secs := int(math.Ceil(float64(retryMs) / 1000))
			h.Set("Retry-After", strconv.Itoa(secs))
			if cfg.Debug {
				c.Logger().Infof("ratelimit: blocked key=%s retry=%dms", key, retryMs)
			}
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":       "RATE_LIMITED",
				"message":     "rate limit exceeded",
				"retry_after": secs,
			})
		}
	}
}

func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	route := c.Request().Method + " " + c.Path()
	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "user":
		parts = append(parts, "user", subject(c))
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	default: // ip_user_route
		parts = append(parts, "ip", ip, "user", subject(c), "route", route)
	}
	return strings.Join(parts, ":")
}
