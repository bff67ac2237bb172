package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/skyhr/skyhr/internal/backend"
)

// User is the signed-in account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Info describes the session itself.
type Info struct {
	ID                   string `json:"id"`
	ActiveOrganizationID string `json:"activeOrganizationId,omitempty"`
}

// Session is the authentication session returned by the auth service.
type Session struct {
	User    User `json:"user"`
	Session Info `json:"session"`
}

// Organization is a tenant the user belongs to.
type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Clearer drops cached data on sign-out.
type Clearer interface {
	ClearAll(ctx context.Context) error
}

// Provider holds the session, active organization and organization list of
// the signed-in user.
type Provider struct {
	doer   backend.Doer
	caches Clearer
	logger *zap.Logger

	Session            *Resource[*Session]
	ActiveOrganization *Resource[*Organization]
	Organizations      *Resource[[]Organization]
}

// NewProvider builds a provider. caches may be nil.
func NewProvider(doer backend.Doer, caches Clearer, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Provider{doer: doer, caches: caches, logger: logger}
	p.Session = NewResource(func(ctx context.Context) (*Session, error) {
		var s *Session
		err := p.get(ctx, "/api/auth/get-session", &s)
		return s, err
	})
	p.ActiveOrganization = NewResource(func(ctx context.Context) (*Organization, error) {
		var o *Organization
		err := p.get(ctx, "/api/auth/organization/get-full-organization", &o)
		return o, err
	})
	p.Organizations = NewResource(func(ctx context.Context) ([]Organization, error) {
		var list []Organization
		err := p.get(ctx, "/api/auth/organization/list", &list)
		return list, err
	})
	return p
}

func (p *Provider) get(ctx context.Context, path string, v any) error {
	resp, err := p.doer.Do(ctx, backend.Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return err
	}
	return resp.Decode(v)
}

// Refetch reloads all three resources and joins their errors.
func (p *Provider) Refetch(ctx context.Context) error {
	var errs []error
	if err := p.Session.Refetch(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to refetch session: %w", err))
	}
	if err := p.ActiveOrganization.Refetch(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to refetch active organization: %w", err))
	}
	if err := p.Organizations.Refetch(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to refetch organizations: %w", err))
	}
	return errors.Join(errs...)
}

type unregisterRequest struct {
	Token string `json:"token,omitempty"`
}

// SignOut unregisters the push token and ends the session. Each step is best
// effort: failures are logged and the local state is cleared regardless.
func (p *Provider) SignOut(ctx context.Context, pushToken string) {
	if pushToken != "" {
		_, err := p.doer.Do(ctx, backend.Request{
			Method: http.MethodPost,
			Path:   "/api/notifications/unregister",
			Body:   unregisterRequest{Token: pushToken},
		})
		if err != nil {
			p.logger.Warn("failed to unregister push token", zap.Error(err))
		}
	}

	if _, err := p.doer.Do(ctx, backend.Request{Method: http.MethodPost, Path: "/api/auth/sign-out", Body: struct{}{}}); err != nil {
		p.logger.Warn("sign-out request failed", zap.Error(err))
	}

	if p.caches != nil {
		if err := p.caches.ClearAll(ctx); err != nil {
			p.logger.Warn("failed to clear caches on sign-out", zap.Error(err))
		}
	}
	p.Session.Reset()
	p.ActiveOrganization.Reset()
	p.Organizations.Reset()
}
