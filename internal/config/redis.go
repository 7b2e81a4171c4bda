package config

import (
    "context"
    "crypto/tls"
    "os"
    "time"

    "github.com/labstack/gommon/log"
    "github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis for the response cache and the rate
// limiter.  Variables: REDIS_ADDR (or REDIS_HOST and REDIS_PORT),
// REDIS_PASSWORD, REDIS_DB, REDIS_TLS.  It returns nil when REDIS_ENABLED
// is false or the server does not answer a ping; both middlewares then
// pass requests straight through.
func NewRedisClient() *redis.Client {
    if !envBool("REDIS_ENABLED", true) {
        return nil
    }
    addr := envStr("REDIS_ADDR", "localhost:6379")
    if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
        addr = host + ":" + port
    }
    opts := &redis.Options{
        Addr:     addr,
        Password: os.Getenv("REDIS_PASSWORD"),
        DB:       envInt("REDIS_DB", 0),
    }
    if envBool("REDIS_TLS", false) {
        opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
    }
    client := redis.NewClient(opts)

    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        log.Warnf("redis at %s unavailable, caching and rate limiting disabled: %v", addr, err)
        _ = client.Close()
        return nil
    }
    return client
}
