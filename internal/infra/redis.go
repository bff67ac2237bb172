package infra

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisClientName identifies gateway connections in CLIENT LIST.
const RedisClientName = "skyhr-gateway"

// NewRedisClient configures a Redis client and verifies connectivity. The
// client backs the shared list cache and the submission guard.
func NewRedisClient(ctx context.Context, url string, logger *zap.Logger) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url is required")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if opt.ClientName == "" {
		opt.ClientName = RedisClientName
	}
	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("connected to redis",
		zap.String("addr", opt.Addr),
		zap.Int("db", opt.DB),
		zap.String("client_name", opt.ClientName),
	)
	return client, nil
}
