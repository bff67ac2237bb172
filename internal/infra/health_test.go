package infra

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestHealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	status, healthy := Health{Cache: client}.Check(context.Background())
	assert.True(t, healthy)
	assert.Equal(t, map[string]string{"postgres": StatusDisabled, "redis": StatusOK, "nats": StatusDisabled}, status)

	mr.Close()
	status, healthy = Health{Cache: client}.Check(context.Background())
	assert.False(t, healthy)
	assert.Equal(t, StatusDown, status["redis"])
}

func TestRedisClientName(t *testing.T) {
	mr := miniredis.RunT(t)
	logger := zaptest.NewLogger(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr(), logger)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	assert.Equal(t, RedisClientName, client.Options().ClientName)

	named, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"?client_name=worker", logger)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	t.Cleanup(func() { _ = named.Close() })
	assert.Equal(t, "worker", named.Options().ClientName)
}

func TestConstructorsRequireURL(t *testing.T) {
	logger := zaptest.NewLogger(t)
	_, err := NewRedisClient(context.Background(), "", logger)
	assert.Error(t, err)
	_, err = NewPostgresPool(context.Background(), "", logger)
	assert.Error(t, err)
	_, err = NewNATSConn("", logger)
	assert.Error(t, err)
}
