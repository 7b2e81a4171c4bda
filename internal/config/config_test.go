package config

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestLoadClientConfig_Defaults(t *testing.T) {
    t.Setenv("RESTAURANT_SERVICE_URL", "")
    t.Setenv("RESTAURANT_CLIENT_TIMEOUT", "")
    c := LoadClientConfig()
    assert.Equal(t, "http://localhost:8081", c.BaseURL)
    assert.Equal(t, 3*time.Second, c.Timeout)
    assert.Equal(t, 1, c.Retries)
}

func TestLoadClientConfig_RejectsNonPositiveTimeout(t *testing.T) {
    t.Setenv("RESTAURANT_CLIENT_TIMEOUT", "-1s")
    t.Setenv("RESTAURANT_CLIENT_RETRIES", "-3")
    c := LoadClientConfig()
    assert.Equal(t, 3*time.Second, c.Timeout)
    assert.Equal(t, 0, c.Retries)
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
    t.Setenv("RATE_LIMIT_CAPACITY", "0")
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
    t.Setenv("RATE_LIMIT_TTL", "1s")
    c := LoadRateLimitConfig()
    assert.Equal(t, 1, c.Capacity)
    assert.Equal(t, 10*time.Second, c.TTL)
}

func TestLoadAvailabilityConfig(t *testing.T) {
    t.Setenv("AVAILABILITY_WEEKEND_PROBABILITY", "1.5")
    t.Setenv("AVAILABILITY_CHECK_HOURS", "yes")
    c := LoadAvailabilityConfig()
    assert.InDelta(t, 0.7, c.WeekendProbability, 1e-9)
    assert.True(t, c.CheckOpeningHours)
    assert.Equal(t, 22, c.ClosingHour)
}

func TestLoadAvailabilityConfig_KeepsZero(t *testing.T) {
    t.Setenv("AVAILABILITY_WEEKEND_PROBABILITY", "0")
    t.Setenv("AVAILABILITY_CLOSING_HOUR", "0")
    c := LoadAvailabilityConfig()
    assert.Zero(t, c.WeekendProbability)
    assert.Zero(t, c.ClosingHour)
}

func TestParseMethods(t *testing.T) {
    assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, parseMethods(" get, HEAD ,,"))
}

func TestEnvBool(t *testing.T) {
    t.Setenv("X_FLAG", "off")
    assert.False(t, envBool("X_FLAG", true))
    t.Setenv("X_FLAG", "maybe")
    assert.True(t, envBool("X_FLAG", true))
}
