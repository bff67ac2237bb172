package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const submissionPrefix = "skyhr:submission:v1:"

// SubmissionGuard reserves a Redis key per route parameter for the duration
// of the request, so a second submission for the same resource is rejected
// with 409 while the first is in flight on any replica. A nil client disables
// the guard.
func SubmissionGuard(cache *redis.Client, param string, ttl time.Duration, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}
		id := c.Params(param)
		if id == "" {
			return c.Next()
		}
		key := submissionPrefix + c.Route().Path + ":" + id

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		reserved, err := cache.SetNX(ctx, key, GetRequestID(c), ttl).Result()
		if err != nil {
			logger.Error("submission reservation failed", zap.String("key", key), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "submission guard failure")
		}
		if !reserved {
			return fiber.NewError(fiber.StatusConflict, "submission already in progress")
		}

		defer func() {
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := cache.Del(cleanupCtx, key).Err(); err != nil {
				logger.Warn("failed to release submission reservation", zap.String("key", key), zap.Error(err))
			}
		}()

		return c.Next()
	}
}
