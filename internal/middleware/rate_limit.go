package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/diwan-maarifa/diwan-backend/internal/common"
	pkglogger "github.com/diwan-maarifa/diwan-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig configures the rate limiter
type RateLimitConfig struct {
	RequestsPerMinute int
	KeyPrefix         string
	Message           string
}

// DefaultRateLimitConfig returns default rate limit configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 120,
		KeyPrefix:         "diwan:ratelimit:",
		Message:           "Too many requests, please try again later",
	}
}

const rateWindow = time.Minute

// rateLimitScript is an atomic Lua script for sliding window rate limiting
var rateLimitScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, now .. ':' .. math.random(1000000))
    redis.call('EXPIRE', key, math.ceil(window / 1000) + 1)
    return {1, limit - count - 1, 0}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local reset_at = 0
if #oldest >= 2 then
    reset_at = tonumber(oldest[2]) + window
end
return {0, 0, reset_at}
`)

// RateLimit limits requests per client IP
func RateLimit(redisClient *redis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	return limiter(redisClient, cfg, func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	})
}

// RateLimitPerUser limits requests per authenticated user, falling back to
// the client IP. Must run after JWTAuth to see the user.
func RateLimitPerUser(redisClient *redis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	cfg.KeyPrefix += "user:"
	return limiter(redisClient, cfg, rateKey)
}

func rateKey(c *gin.Context) string {
	if p, ok := GetPrincipal(c); ok {
		return strconv.FormatUint(p.ID, 10)
	}
	return "ip:" + c.ClientIP()
}

func limiter(redisClient *redis.Client, cfg RateLimitConfig, keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil || cfg.RequestsPerMinute <= 0 {
			c.Next()
			return
		}

		now := time.Now().UnixMilli()
		result, err := rateLimitScript.Run(c.Request.Context(), redisClient,
			[]string{cfg.KeyPrefix + keyFn(c)},
			cfg.RequestsPerMinute, rateWindow.Milliseconds(), now,
		).Int64Slice()
		if err != nil {
			// fail open
			pkglogger.GetLogger().Warn().Err(err).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		allowed, remaining, resetAt := result[0] == 1, result[1], result[2]

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			retryAfter := (resetAt - now) / 1000
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt/1000, 10))
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			common.ErrorResponse(c, http.StatusTooManyRequests, cfg.Message, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
