package announcements

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/skyhr/skyhr/internal/backend"
	"github.com/skyhr/skyhr/internal/cache"
)

// Announcement is an organization-wide notice.
type Announcement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Priority    string    `json:"priority,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// Lister fetches announcements from the backend.
type Lister interface {
	List(ctx context.Context) ([]Announcement, error)
}

// Client calls the announcements endpoint.
type Client struct {
	doer backend.Doer
}

// NewClient builds an announcements client.
func NewClient(doer backend.Doer) *Client {
	return &Client{doer: doer}
}

// List returns every announcement visible to the caller.
func (c *Client) List(ctx context.Context) ([]Announcement, error) {
	resp, err := c.doer.Do(ctx, backend.Request{Method: http.MethodGet, Path: "/api/announcements"})
	if err != nil {
		return nil, err
	}
	var out []Announcement
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Service serves announcements through the shared cache.
type Service struct {
	lister Lister
	feed   *cache.Feed[Announcement]
}

// NewService wires the lister to the announcements cache entry of store.
func NewService(lister Lister, store *cache.Store, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		lister: lister,
		feed:   cache.NewFeed("announcements", cache.Entry[Announcement](store, cache.Announcements), ttl, logger),
	}
}

// List returns the announcements, fetching when the cached copy is missing,
// expired, or refresh is set.
func (s *Service) List(ctx context.Context, refresh bool) (cache.Result[Announcement], error) {
	return s.feed.Load(ctx, cache.Options{Refresh: refresh}, s.lister.List)
}
