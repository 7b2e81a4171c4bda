package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-booking/internal/config"
)

// bodyRecorder tees the response body into a bounded buffer.
type bodyRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	limit  int
	over   bool
}

func (w *bodyRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	if !w.over {
		if w.limit > 0 && w.buf.Len()+len(b) > w.limit {
			w.over = true
			w.buf.Reset()
		} else {
			w.buf.Write(b)
		}
	}
	return w.ResponseWriter.Write(b)
}

// cacheKey hashes the parts of the request selected by cfg.KeyStrategy.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", c.Path()}
	case "path":
		parts = []string{"path", r.URL.Path}
	default: // path_query
		parts = []string{"path", r.URL.Path, "q", r.URL.RawQuery}
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// encodeEntry packs [4 bytes status][4 bytes header length][header JSON][body].
func encodeEntry(status int, header http.Header, body []byte) ([]byte, error) {
	hdr, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8, 8+len(hdr)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdr)))
	out = append(out, hdr...)
	return append(out, body...), nil
}

func decodeEntry(bs []byte) (int, http.Header, []byte, bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status := int(binary.BigEndian.Uint32(bs[0:4]))
	n := int(binary.BigEndian.Uint32(bs[4:8]))
	if n < 0 || 8+n > len(bs) {
		return 0, nil, nil, false
	}
	hdr := http.Header{}
	if n > 0 {
		if err := json.Unmarshal(bs[8:8+n], &hdr); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, hdr, bs[8+n:], true
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// ResponseCache serves repeated reads of restaurant data from Redis.  Only
// 200 answers to the configured methods are stored, with headers, so a
// hit is byte-identical to the original.  Redis errors fall through to
// the handler.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[c.Request().Method] {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKey(cfg, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodeEntry(bs); ok {
					h := c.Response().Header()
					for k, vs := range hdr {
						if strings.EqualFold(k, echo.HeaderContentLength) {
							continue
						}
						h[k] = vs
					}
					h.Set("X-Cache", "HIT")
					return c.Blob(status, h.Get(echo.HeaderContentType), body)
				}
			}

			rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if rec.status != http.StatusOK || rec.over {
				return nil
			}
			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			if entry, err := encodeEntry(rec.status, hdr, rec.buf.Bytes()); err == nil {
				_ = rdb.Set(context.WithoutCancel(ctx), key, entry, ttl).Err()
			}
			return nil
		}
	}
}

// InvalidateCache drops every cached response under cfg.Prefix once a
// write handler has succeeded, so directory reads never outlive the
// data they were built from by more than one request.
func InvalidateCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := next(c); err != nil {
				return err
			}
			if s := c.Response().Status; s < 200 || s >= 300 {
				return nil
			}
			ctx := context.WithoutCancel(c.Request().Context())
			iter := rdb.Scan(ctx, 0, cfg.Prefix+":*", 200).Iterator()
			var keys []string
			for iter.Next(ctx) {
				keys = append(keys, iter.Val())
			}
			if err := iter.Err(); err != nil {
				c.Logger().Warnf("cache: scan %s: %v", cfg.Prefix, err)
				return nil
			}
			if len(keys) > 0 {
				if err := rdb.Del(ctx, keys...).Err(); err != nil {
					c.Logger().Warnf("cache: invalidate %d keys: %v", len(keys), err)
				}
			}
			return nil
		}
	}
}
