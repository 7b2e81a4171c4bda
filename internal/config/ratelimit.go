package config

import "time"

// RateLimitConfig configures the token bucket guarding reservation
// writes.  KeyStrategy is one of ip, user, ip_route or ip_user_route.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables and clamps them to
// workable values.
func LoadRateLimitConfig() RateLimitConfig {
    c := RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       envInt("RATE_LIMIT_CAPACITY", 20),
        RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", 3*time.Second),
        TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
        KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
        Prefix:         envStr("RATE_LIMIT_PREFIX", "reservations:rl"),
        Debug:          envBool("RATE_LIMIT_DEBUG", false),
    }
    c.Capacity = max(c.Capacity, 1)
    c.RefillTokens = max(c.RefillTokens, 1)
    if c.RefillInterval <= 0 {
        c.RefillInterval = time.Second
    }
    // keep a bucket alive long enough to refill completely
    c.TTL = max(c.TTL, 5*c.RefillInterval)
    return c
}
