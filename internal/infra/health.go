package infra

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

// Component status values reported by Check.
const (
	StatusOK       = "ok"
	StatusDown     = "down"
	StatusDisabled = "disabled"
)

// Health pings the optional infrastructure of the gateway. Nil members are
// reported as disabled.
type Health struct {
	DB    *pgxpool.Pool
	Cache *redis.Client
	NATS  *nats.Conn
}

// Check returns a status per component and whether all enabled ones are up.
func (h Health) Check(ctx context.Context) (map[string]string, bool) {
	status := map[string]string{
		"postgres": StatusDisabled,
		"redis":    StatusDisabled,
		"nats":     StatusDisabled,
	}
	healthy := true
	mark := func(name string, err error) {
		if err != nil {
			status[name] = StatusDown
			healthy = false
			return
		}
		status[name] = StatusOK
	}

	if h.DB != nil {
		mark("postgres", h.DB.Ping(ctx))
	}
	if h.Cache != nil {
		mark("redis", h.Cache.Ping(ctx).Err())
	}
	if h.NATS != nil {
		var err error
		if !h.NATS.IsConnected() {
			err = errors.New("nats not connected")
		}
		mark("nats", err)
	}
	return status, healthy
}
