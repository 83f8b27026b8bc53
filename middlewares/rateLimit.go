package middlewares

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const rateLimitWindow = time.Minute

var rateLimitClock = time.Now

// RateLimit allows limit requests per client IP per minute for the route group
// named scope. A nil client or non-positive limit disables it; redis errors fail open.
func RateLimit(rdb *redis.Client, scope string, limit int) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if rdb == nil || limit <= 0 {
			ctx.Next()
			return
		}

		window := rateLimitClock().Unix() / int64(rateLimitWindow.Seconds())
		key := fmt.Sprintf("ratelimit:%s:%s:%d", scope, ctx.ClientIP(), window)

		pipe := rdb.TxPipeline()
		incr := pipe.Incr(ctx.Request.Context(), key)
		pipe.Expire(ctx.Request.Context(), key, rateLimitWindow)
		if _, err := pipe.Exec(ctx.Request.Context()); err != nil {
			zap.L().Warn("rate limiter unavailable", zap.String("scope", scope), zap.Error(err))
			ctx.Next()
			return
		}

		count := incr.Val()
		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		ctx.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		ctx.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(limit) {
			ctx.Header("Retry-After", strconv.Itoa(int(rateLimitWindow.Seconds())))
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests, try again later"})
			return
		}

		ctx.Next()
	}
}
