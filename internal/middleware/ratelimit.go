package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/config"
)

// bucketScript implements a token bucket in a single Redis round trip:
// refill by elapsed whole intervals, then try to take one token.  It
// returns {allowed, tokens_left, retry_after_ms}.
var bucketScript = redis.NewScript(`
    local now_ms   = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill   = tonumber(ARGV[3])
    local interval = tonumber(ARGV[4])
    local ttl_s    = tonumber(ARGV[5])

    local state = redis.call('HMGET', KEYS[1], 'tokens', 'refilled_ms')
    local tokens = tonumber(state[1])
    local refilled = tonumber(state[2])
    if tokens == nil then
        tokens = capacity
        refilled = now_ms
    end

    local cycles = math.floor(math.max(0, now_ms - refilled) / interval)
    if cycles > 0 then
        tokens = math.min(capacity, tokens + cycles * refill)
        refilled = refilled + cycles * interval
    end

    local allowed = 0
    local retry_ms = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    else
        retry_ms = math.max(0, interval - (now_ms - refilled))
    end

    redis.call('HMSET', KEYS[1], 'tokens', tokens, 'refilled_ms', refilled)
    redis.call('EXPIRE', KEYS[1], ttl_s)
    return { allowed, tokens, retry_ms }
`)

// NewTokenBucket rate-limits per caller and route.  Authenticated
// requests are keyed by user ID, anonymous ones by client IP.  When
// Redis is unavailable the limiter fails open: throttling is a
// protection, not a correctness requirement.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := cfg.Prefix + ":" + callerKey(c) + ":" + c.Request().Method + ":" + c.Path()

			res, err := bucketScript.Run(c.Request().Context(), rdb, []string{key},
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL/time.Second),
			).Int64Slice()
			if err != nil || len(res) != 3 {
				return next(c)
			}
			allowed, remaining, retryMs := res[0] == 1, res[1], res[2]

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !allowed {
				retrySec := (retryMs + 999) / 1000
				h.Set("Retry-After", strconv.FormatInt(retrySec, 10))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"message":     "rate limit exceeded",
					"retry_after": retrySec,
				})
			}
			return next(c)
		}
	}
}

// callerKey identifies the requester: the user_id claim set by the JWT
// middleware when present, otherwise the client IP.
func callerKey(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case uint64:
		return "u" + strconv.FormatUint(v, 10)
	case float64:
		return "u" + strconv.FormatUint(uint64(v), 10)
	case string:
		if v != "" {
			return "u" + v
		}
	}
	if ip := c.RealIP(); ip != "" {
		return "ip" + ip
	}
	return "anon"
}
