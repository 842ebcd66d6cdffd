package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/joshua-takyi/sarahah/internal/models"
)

// RateLimit throttles by client IP with a fixed window counter in
// Redis: INCR plus a TTL set on the first hit of each window. It is
// advisory backpressure; if Redis is unreachable the request goes
// through.
func RateLimit(rdb *redis.Client, logger *slog.Logger, prefix string, maxRequests int, window time.Duration) gin.HandlerFunc {
	message := fmt.Sprintf("Too many requests, please try again after %s", window)

	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", prefix, c.ClientIP())
		ctx := c.Request.Context()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			logger.Error("Rate limit counter failed", "key", key, "error", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := rdb.Expire(ctx, key, window).Err(); err != nil {
				logger.Error("Rate limit expiry failed", "key", key, "error", err)
			}
		}
		if count > int64(maxRequests) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse(message))
			return
		}
		c.Next()
	}
}
