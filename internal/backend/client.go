package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// Doer is the transport used by the domain clients.
type Doer interface {
	Do(ctx context.Context, req Request) (Response, error)
}

// Request describes one call to the backend API.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response is a successful (status < 400) backend answer.
type Response struct {
	Status int
	Body   []byte
}

// Decode unmarshals the body into v.
func (r Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return ErrInvalidResponse
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// Client talks to the SkyHR backend over HTTP using the fiber agent.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient builds a backend client. token is sent as a bearer token when set.
func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("backend url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Do sends req and returns the response for statuses below 400. Statuses of
// 400 and above become *APIError; transport failures become *NetworkError.
// There are no retries.
func (c *Client) Do(ctx context.Context, req Request) (Response, error) {
	op := req.Method + " " + req.Path
	if err := ctx.Err(); err != nil {
		return Response{}, &NetworkError{Op: op, Err: err}
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	agent := fiber.AcquireAgent()
	agent.Request().Header.SetMethod(req.Method)
	agent.Request().SetRequestURI(target)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			fiber.ReleaseAgent(agent)
			return Response{}, fmt.Errorf("encode %s body: %w", op, err)
		}
		agent.ContentType(fiber.MIMEApplicationJSON)
		agent.Body(payload)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	agent.Timeout(timeout)

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return Response{}, fmt.Errorf("prepare %s: %w", op, err)
	}

	start := time.Now()
	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		err := errors.Join(errs...)
		c.logger.Warn("backend unreachable", zap.String("op", op), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return Response{}, &NetworkError{Op: op, Err: err}
	}

	c.logger.Debug("backend call", zap.String("op", op), zap.Int("status", status), zap.Duration("elapsed", time.Since(start)))

	if status >= fiber.StatusBadRequest {
		return Response{}, newAPIError(status, body)
	}
	return Response{Status: status, Body: body}, nil
}
