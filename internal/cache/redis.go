package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "skyhr:cache:v1:"

type redisEntry[T any] struct {
	Data      []T   `json:"data"`
	Timestamp int64 `json:"timestamp"`
}

// Redis stores one list under a key so every gateway replica shares it. The
// freshness check uses the stored timestamp, not a Redis expiry, so stale
// values stay available as a fallback.
type Redis[T any] struct {
	client *redis.Client
	key    string
	now    Clock
	logger *zap.Logger
}

// NewRedis returns an entry stored under name.
func NewRedis[T any](client *redis.Client, name string, clock Clock, logger *zap.Logger) *Redis[T] {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis[T]{client: client, key: keyPrefix + name, now: clock, logger: logger}
}

func (r *Redis[T]) load(ctx context.Context) (redisEntry[T], bool) {
	var entry redisEntry[T]
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("cache read failed", zap.String("key", r.key), zap.Error(err))
		}
		return entry, false
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		r.logger.Warn("failed to decode cached entry", zap.String("key", r.key), zap.Error(err))
		return entry, false
	}
	return entry, true
}

func (r *Redis[T]) Get(ctx context.Context, ttl time.Duration) ([]T, bool) {
	entry, ok := r.load(ctx)
	if !ok || !fresh(time.UnixMilli(entry.Timestamp), r.now(), ttl) {
		return nil, false
	}
	return entry.Data, true
}

func (r *Redis[T]) Peek(ctx context.Context) ([]T, time.Time, bool) {
	entry, ok := r.load(ctx)
	if !ok {
		return nil, time.Time{}, false
	}
	return entry.Data, time.UnixMilli(entry.Timestamp), true
}

func (r *Redis[T]) Set(ctx context.Context, data []T) error {
	payload, err := json.Marshal(redisEntry[T]{Data: data, Timestamp: r.now().UnixMilli()})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := r.client.Set(ctx, r.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

func (r *Redis[T]) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to clear cache entry: %w", err)
	}
	return nil
}
