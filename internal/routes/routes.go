package routes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/skyhr/skyhr/internal/announcements"
	"github.com/skyhr/skyhr/internal/attendance"
	"github.com/skyhr/skyhr/internal/audit"
	"github.com/skyhr/skyhr/internal/backend"
	"github.com/skyhr/skyhr/internal/cache"
	"github.com/skyhr/skyhr/internal/config"
	"github.com/skyhr/skyhr/internal/geometry"
	"github.com/skyhr/skyhr/internal/liveness"
	"github.com/skyhr/skyhr/internal/middleware"
	"github.com/skyhr/skyhr/internal/notification"
	"github.com/skyhr/skyhr/internal/permissions"
	"github.com/skyhr/skyhr/internal/scan"
	"github.com/skyhr/skyhr/internal/session"
)

// Deps aggregates shared dependencies required to wire routes. DB, Cache and
// NATS may be nil in development.
type Deps struct {
	Cfg     config.Config
	DB      *pgxpool.Pool
	Cache   *redis.Client
	NATS    *nats.Conn
	Backend backend.Doer
	Logger  *zap.Logger
}

// App holds the long-lived state built by Setup.
type App struct {
	Scans    *scan.Registry
	Captures *liveness.Registry
	Caches   *cache.Store
	Session  *session.Provider
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) (*App, error) {
	if !d.Cfg.IsDevelopment() {
		if d.DB == nil {
			return nil, fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return nil, fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.NATS == nil {
			return nil, fmt.Errorf("nats is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}
	if d.Backend == nil {
		client, err := backend.NewClient(d.Cfg.BackendURL, d.Cfg.BackendToken, d.Cfg.BackendTimeout, d.Logger)
		if err != nil {
			return nil, err
		}
		d.Backend = client
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Services and handlers
	var auditRepo audit.Repository
	if d.DB != nil {
		pg := audit.NewPostgresRepository(d.DB)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			return nil, err
		}
		auditRepo = pg
	} else {
		auditRepo = audit.NewMemoryRepository()
	}

	var notifier notification.Notifier
	if d.NATS != nil {
		notifier = notification.NewNATSNotifier(d.NATS, d.Logger)
	} else {
		notifier = notification.NewLoggerNotifier(d.Logger)
	}

	attendanceClient := attendance.NewClient(d.Backend)
	scans := scan.NewRegistry(scan.SessionConfig{
		Gate:      geometry.NewGate(d.Cfg.ScanMinFraction),
		Validator: attendance.NewValidator(attendanceClient, d.Logger),
		Observer:  audit.NewObserver(auditRepo, notifier, d.Logger),
		Logger:    d.Logger,
	})

	caches := cache.NewStore(d.Cache, nil, d.Logger)
	announcementSvc := announcements.NewService(announcements.NewClient(d.Backend), caches, d.Cfg.CacheTTL, d.Logger)
	permissionSvc := permissions.NewService(permissions.NewClient(d.Backend), caches, d.Cfg.CacheTTL, d.Logger)
	provider := session.NewProvider(d.Backend, caches, d.Logger)

	captures := liveness.NewRegistry(liveness.CaptureConfig{
		Registrar:   attendanceClient,
		Refresher:   provider,
		Gate:        liveness.NewGate(d.Cfg.LivenessMinScore),
		FrameGate:   geometry.NewGate(d.Cfg.ScanMinFraction),
		SettleDelay: d.Cfg.LivenessSettleDelay,
		Logger:      d.Logger,
	})

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.GetRequestID(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterScanRoutes(api, scan.NewHandler(scans))
	RegisterLivenessRoutes(api, liveness.NewHandler(captures),
		middleware.SubmissionGuard(d.Cache, "id", d.Cfg.SubmissionGuardTTL, d.Logger))
	RegisterFeedRoutes(api, announcementSvc, permissionSvc)
	RegisterAttendanceRoutes(api, attendanceClient)
	RegisterAuthRoutes(api, provider)

	return &App{Scans: scans, Captures: captures, Caches: caches, Session: provider}, nil
}
