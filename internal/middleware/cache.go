package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/festival-schedule/internal/config"
	appLog "github.com/iliyamo/festival-schedule/internal/log"
)

// captureWriter tees the response body into buf, up to limit bytes, while
// forwarding everything to the client.
type captureWriter struct {
	http.ResponseWriter
	status    int
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.truncated {
		if cw.limit > 0 && cw.buf.Len()+len(b) > cw.limit {
			cw.truncated = true
		} else {
			cw.buf.Write(b)
		}
	}
	return cw.ResponseWriter.Write(b)
}

// cachedResponse is the value stored per cache key.
type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// cacheKey hashes the route and, unless the strategy is "path", the raw
// query, so ?date=2025-09-26 and ?date=2025-09-27 are cached apart.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
	parts := []string{"route", c.Path()}
	if !strings.EqualFold(cfg.KeyStrategy, "path") {
		parts = append(parts, "q", c.Request().URL.RawQuery)
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// passThrough is used when a Redis-backed middleware is disabled.
func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// NewRedisCache replays successful responses from Redis for cfg.TTL.  Only
// 200 responses that fit in cfg.MaxBodyBytes are stored.  Without a Redis
// client it does nothing.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			key := cacheKey(cfg, c)

			if raw, err := rdb.Get(c.Request().Context(), key).Bytes(); err == nil {
				var hit cachedResponse
				if err := json.Unmarshal(raw, &hit); err == nil {
					return replay(c, hit)
				}
			} else if err != redis.Nil {
				appLog.Debug("cache lookup failed", "key", key, "err", err)
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.truncated {
				return nil
			}
			entry := cachedResponse{Status: cw.status, Header: c.Response().Header().Clone(), Body: cw.buf.Bytes()}
			entry.Header.Del("X-Cache")
			entry.Header.Del("Content-Length")
			payload, err := json.Marshal(entry)
			if err != nil {
				return nil
			}
			// The request context may already be done once the client has
			// its response.
			if err := rdb.Set(context.Background(), key, payload, ttl).Err(); err != nil {
				appLog.Debug("cache store failed", "key", key, "err", err)
			}
			return nil
		}
	}
}

func replay(c echo.Context, hit cachedResponse) error {
	h := c.Response().Header()
	for k, vals := range hit.Header {
		for _, v := range vals {
			h.Add(k, v)
		}
	}
	h.Set("X-Cache", "HIT")
	c.Response().WriteHeader(hit.Status)
	_, err := c.Response().Write(hit.Body)
	return err
}
