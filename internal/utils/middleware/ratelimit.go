package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "ratelimit:"

// RateLimiter implements a sliding window rate limiter backed by Redis.
type RateLimiter struct {
	client *redis.Client
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow reports whether one more request is allowed for key within the window.
func (r *RateLimiter) Allow(c *gin.Context, key string, limit int, window time.Duration) (bool, error) {
	ctx := c.Request.Context()
	fullKey := rateLimitKeyPrefix + key

	now := time.Now().UnixNano()
	windowStart := now - window.Nanoseconds()

	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, fullKey, "0", fmt.Sprintf("%d", windowStart))
	countCmd := pipe.ZCard(ctx, fullKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	if countCmd.Val() >= int64(limit) {
		return false, nil
	}

	pipe = r.client.Pipeline()
	pipe.ZAdd(ctx, fullKey, redis.Z{Score: float64(now), Member: fmt.Sprintf("%d", now)})
	pipe.Expire(ctx, fullKey, window)
	_, err := pipe.Exec(ctx)
	return true, err
}

// RateLimit returns a middleware limiting requests per client IP.
// Limiter failures fail open: a broken Redis must not take writes down with it.
func RateLimit(limiter *RateLimiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c, c.ClientIP(), limit, window)
		if err != nil {
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests",
			})
			return
		}
		c.Next()
	}
}
