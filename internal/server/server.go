package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/skyhr/skyhr/internal/routes"
)

const sweepInterval = time.Minute

// Server wraps the Fiber application and the long-lived gateway state.
type Server struct {
	app    *fiber.App
	deps   routes.Deps
	state  *routes.App
	logger *zap.Logger

	stop chan struct{}
	done chan struct{}
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
func New(d routes.Deps) (*Server, error) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:      d.Cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: errorHandler,
	})

	state, err := routes.Setup(app, d)
	if err != nil {
		return nil, err
	}

	s := &Server{
		app:    app,
		deps:   d,
		state:  state,
		logger: d.Logger,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.sweep()
	return s, nil
}

// App exposes the fiber application, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.deps.Cfg.Address())
}

// Shutdown gracefully stops the HTTP server and the sweeper.
func (s *Server) Shutdown(ctx context.Context) error {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	err := s.app.ShutdownWithContext(ctx)
	select {
	case <-s.done:
	case <-ctx.Done():
	}
	return err
}

func (s *Server) sweep() {
	defer close(s.done)
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if n := s.state.Scans.Sweep(s.deps.Cfg.ScanSessionIdle); n > 0 {
				s.logger.Info("closed idle scan sessions", zap.Int("count", n))
			}
			if n := s.state.Captures.Sweep(s.deps.Cfg.CaptureSessionIdle); n > 0 {
				s.logger.Info("closed idle liveness captures", zap.Int("count", n))
			}
		}
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
