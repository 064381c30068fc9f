package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/coursehub-dev/coursehub-api/pkg/config"
	appErrors "github.com/coursehub-dev/coursehub-api/pkg/errors"
	"github.com/coursehub-dev/coursehub-api/pkg/response"
)

var errTooManyRequests = appErrors.New("TOO_MANY_REQUESTS", http.StatusTooManyRequests, "too many requests, try again later")

// RateLimit enforces a fixed-window per-IP request ceiling backed by Redis.
// When Redis is unreachable the limiter fails open.
func RateLimit(client *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if !cfg.Enabled || client == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		window := time.Now().Unix() / int64(cfg.Window.Seconds())
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), window)

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(ctx, key, cfg.Window)
		}

		if count > int64(cfg.Limit) {
			response.Error(c, errTooManyRequests)
			c.Abort()
			return
		}

		c.Next()
	}
}
