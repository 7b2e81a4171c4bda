package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDriverConfig(t *testing.T) {
	cfg := driverConfig("app", "s3cret", "db", "3306", "restaurants")
	assert.Equal(t, "db:3306", cfg.Addr)

	dsn := cfg.FormatDSN()
	assert.True(t, strings.HasPrefix(dsn, "app:s3cret@tcp(db:3306)/restaurants?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestDriverConfig_IPv6Host(t *testing.T) {
	assert.Equal(t, "[::1]:3306", driverConfig("app", "", "::1", "3306", "x").Addr)
}
