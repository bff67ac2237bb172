package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap/zaptest"
)

func setupTestApp(t *testing.T) (*fiber.App, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})

	logger := zaptest.NewLogger(t)
	app := fiber.New()
	app.Use(RequestID(), AccessLog(logger))
	app.Post("/captures/:id", SubmissionGuard(cache, "id", time.Minute, logger), func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
	})
	return app, mr
}

func post(t *testing.T, app *fiber.App, path string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode
}

func TestSubmissionGuardRejectsInFlightDuplicate(t *testing.T) {
	app, mr := setupTestApp(t)

	// Another replica holds the reservation.
	if err := mr.Set(submissionPrefix+"/captures/:id:c1", "other"); err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
	if got := post(t, app, "/captures/c1"); got != fiber.StatusConflict {
		t.Fatalf("expected %d got %d", fiber.StatusConflict, got)
	}

	if got := post(t, app, "/captures/c2"); got != fiber.StatusCreated {
		t.Fatalf("expected %d got %d", fiber.StatusCreated, got)
	}
}

func TestSubmissionGuardReleasesAfterRequest(t *testing.T) {
	app, mr := setupTestApp(t)

	for i := 0; i < 2; i++ {
		if got := post(t, app, "/captures/c1"); got != fiber.StatusCreated {
			t.Fatalf("request %d: expected %d got %d", i, fiber.StatusCreated, got)
		}
	}
	if keys := mr.Keys(); len(keys) != 0 {
		t.Fatalf("expected reservation to be released, found %v", keys)
	}
}

func TestSubmissionGuardStoreFailure(t *testing.T) {
	app, mr := setupTestApp(t)
	mr.Close()

	if got := post(t, app, "/captures/c1"); got != fiber.StatusInternalServerError {
		t.Fatalf("expected %d got %d", fiber.StatusInternalServerError, got)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/captures/c9", strings.NewReader("{}"))
	req.Header.Set(requestIDHeader, "req-42")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(requestIDHeader); got != "req-42" {
		t.Fatalf("expected request id req-42 got %q", got)
	}
}

func TestSubmissionGuardDisabledWithoutRedis(t *testing.T) {
	app := fiber.New()
	app.Post("/captures/:id", SubmissionGuard(nil, "id", time.Minute, zaptest.NewLogger(t)), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	if got := post(t, app, "/captures/c1"); got != fiber.StatusNoContent {
		t.Fatalf("expected %d got %d", fiber.StatusNoContent, got)
	}
}
