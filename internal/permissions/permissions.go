package permissions

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/skyhr/skyhr/internal/backend"
	"github.com/skyhr/skyhr/internal/cache"
)

// Status is the approval state of a permission request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus accepts an empty string as "no filter".
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case "", StatusPending, StatusApproved, StatusRejected:
		return st, nil
	default:
		return "", fmt.Errorf("unknown permission status %q", s)
	}
}

// Permission is a leave or absence request.
type Permission struct {
	ID       string     `json:"id"`
	UserID   string     `json:"user_id"`
	Type     string     `json:"type"`
	Status   Status     `json:"status"`
	StartsAt time.Time  `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
	Reason   string     `json:"reason,omitempty"`
}

// Lister fetches permissions from the backend. An empty status lists all.
type Lister interface {
	List(ctx context.Context, status Status) ([]Permission, error)
}

// Client calls the permissions endpoint.
type Client struct {
	doer backend.Doer
}

// NewClient builds a permissions client.
func NewClient(doer backend.Doer) *Client {
	return &Client{doer: doer}
}

func (c *Client) List(ctx context.Context, status Status) ([]Permission, error) {
	req := backend.Request{Method: http.MethodGet, Path: "/api/permissions"}
	if status != "" {
		req.Query = url.Values{"status": {string(status)}}
	}
	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	var out []Permission
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Service serves permissions through the shared cache. Only the unfiltered
// list is cached.
type Service struct {
	lister Lister
	feed   *cache.Feed[Permission]
}

// NewService wires the lister to the permissions cache entry of store.
func NewService(lister Lister, store *cache.Store, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		lister: lister,
		feed:   cache.NewFeed("permissions", cache.Entry[Permission](store, cache.Permissions), ttl, logger),
	}
}

func (s *Service) List(ctx context.Context, status Status, refresh bool) (cache.Result[Permission], error) {
	opts := cache.Options{Refresh: refresh, Filtered: status != ""}
	return s.feed.Load(ctx, opts, func(ctx context.Context) ([]Permission, error) {
		return s.lister.List(ctx, status)
	})
}
