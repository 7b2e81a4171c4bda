package config

import (
    "strings"
    "time"
)

// CacheConfig configures the Redis response cache in front of the
// restaurant directory's read routes.  KeyStrategy is one of route, path
// or path_query.  Responses larger than MaxBodyBytes are not stored.
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool
    TTL          time.Duration
    KeyStrategy  string
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
        TTL:          envDur("CACHE_TTL", 30*time.Second),
        KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "path_query"),
        Prefix:       envStr("CACHE_PREFIX", "restaurants:cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
}

func parseMethods(s string) map[string]bool {
    m := map[string]bool{}
    for _, p := range strings.Split(s, ",") {
        if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
            m[p] = true
        }
    }
    return m
}
