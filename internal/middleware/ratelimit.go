package middleware

import (
    "bytes"
    "encoding/json"
    "io"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/stadium-entry/internal/config"
)

// CodeRateLimited is the error code of a 429 body.
const CodeRateLimited = "RATE_LIMITED"

// maxPeekBytes bounds how much of a verify body is read to find the holder.
const maxPeekBytes = 4 << 10

// takeToken refills the bucket at KEYS[1] by whole intervals, then takes a
// token if one is left.  It returns {allowed, remaining, retry_after_ms}.
var takeToken = redis.NewScript(`
local capacity = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local interval = tonumber(ARGV[4])
local now = tonumber(ARGV[1])

local tokens = tonumber(redis.call('HGET', KEYS[1], 'tokens') or capacity)
local stamp = tonumber(redis.call('HGET', KEYS[1], 'stamp') or now)

local steps = 0
if interval > 0 then
  steps = math.floor(math.max(0, now - stamp) / interval)
end
if steps > 0 then
  tokens = math.min(capacity, tokens + steps * refill)
  stamp = stamp + steps * interval
end

local allowed, wait = 0, 0
if tokens > 0 then
  allowed, tokens = 1, tokens - 1
else
  wait = math.max(0, interval - (now - stamp))
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'stamp', stamp)
redis.call('EXPIRE', KEYS[1], ARGV[5])
return {allowed, tokens, wait}
`)

// NewTokenBucket throttles gate checks with a token bucket per key kept in
// Redis.  With the national_id strategy every holder gets a bucket of
// their own, so guessing ticket numbers for one person is slowed down
// whichever address it comes from.  Redis failures let the request
// through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    limit := strconv.Itoa(cfg.Capacity)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := buildRateKey(cfg, c)
            res, err := takeToken.Run(c.Request().Context(), rdb, []string{key},
                time.Now().UnixMilli(),
                cfg.Capacity,
                cfg.RefillTokens,
                cfg.RefillInterval.Milliseconds(),
                int64(cfg.TTL/time.Second),
            ).Int64Slice()
            if err != nil || len(res) != 3 {
                c.Logger().Warnf("[ratelimit] key=%s: %v", key, err)
                return next(c)
            }

            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", limit)
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))
            if res[0] == 1 {
                return next(c)
            }

            secs := (res[2] + 999) / 1000
            h.Set("Retry-After", strconv.FormatInt(secs, 10))
            return c.JSON(http.StatusTooManyRequests, echo.Map{
                "error":       "too many verification attempts",
                "code":        CodeRateLimited,
                "retry_after": secs,
            })
        }
    }
}

// buildRateKey derives the bucket key for c from cfg.KeyStrategy:
// ip, route, ip_route (default) or national_id.  national_id falls back
// to the client address when the body names no holder.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
    ip := c.RealIP()
    if ip == "" {
        ip = "unknown"
    }
    route := c.Request().Method + " " + c.Path()

    parts := []string{cfg.Prefix}
    switch strings.ToLower(cfg.KeyStrategy) {
    case "ip":
        parts = append(parts, "ip", ip)
    case "route":
        parts = append(parts, "route", route)
    case "national_id":
        if id := peekNationalID(c.Request()); id != "" {
            parts = append(parts, "holder", id)
        } else {
            parts = append(parts, "ip", ip)
        }
    default:
        parts = append(parts, "ip", ip, "route", route)
    }
    return strings.Join(parts, ":")
}

// peekNationalID reads the national_id field of a JSON body and puts the
// body back for the handler.
func peekNationalID(r *http.Request) string {
    if r.Body == nil {
        return ""
    }
    raw, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBytes))
    rest := r.Body
    r.Body = struct {
        io.Reader
        io.Closer
    }{io.MultiReader(bytes.NewReader(raw), rest), rest}
    if err != nil {
        return ""
    }

    var body struct {
        NationalID string `json:"national_id"`
    }
    if json.Unmarshal(raw, &body) != nil {
        return ""
    }
    return strings.TrimSpace(body.NationalID)
}
