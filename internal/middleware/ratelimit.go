package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/festival-schedule/internal/config"
	appLog "github.com/iliyamo/festival-schedule/internal/log"
)

// tokenBucket refills whole intervals since the last refill, takes one
// token when available and returns {allowed, remaining, retry_after_ms}.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local interval = tonumber(ARGV[4])
local ttl_ms = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'refilled_at')
local tokens = tonumber(state[1])
local refilled_at = tonumber(state[2])
if tokens == nil or refilled_at == nil then
	tokens = capacity
	refilled_at = now
end

local steps = math.floor(math.max(0, now - refilled_at) / interval)
if steps > 0 then
	tokens = math.min(capacity, tokens + steps * refill)
	refilled_at = refilled_at + steps * interval
end

local allowed = 0
local retry = 0
if tokens >= 1 then
	allowed = 1
	tokens = tokens - 1
else
	retry = math.max(0, interval - (now - refilled_at))
end

redis.call('HSET', key, 'tokens', tokens, 'refilled_at', refilled_at)
redis.call('PEXPIRE', key, ttl_ms)
return {allowed, tokens, retry}
`)

// NewTokenBucket limits requests per key (see config.RateLimitConfig) with
// a token bucket kept in Redis.  Redis errors let the request through.
// Without a Redis client it does nothing.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
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
				cfg.TTL.Milliseconds(),
			).Int64Slice()
			if err != nil || len(res) != 3 {
				appLog.Warn("rate limit check skipped", "key", key, "err", err)
				return next(c)
			}
			allowed, remaining, retryMs := res[0] == 1, res[1], res[2]

			h := c.Response().Header()
			if cfg.Debug {
				h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
				h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
				h.Set("X-RateLimit-Key", key)
			}
			if allowed {
				return next(c)
			}
			secs := int(math.Ceil(float64(retryMs) / 1000))
			h.Set("Retry-After", strconv.Itoa(secs))
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":       "too_many_requests",
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

	parts := []string{cfg.Prefix, "ip", ip}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
	case "ip_route":
		parts = append(parts, "route", route)
	default:
		parts = append(parts, "user", subject(c), "route", route)
	}
	return strings.Join(parts, ":")
}
