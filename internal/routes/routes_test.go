package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/skyhr/skyhr/internal/config"
)

type fakeBackend struct {
	validations  int32
	registers    int32
	announcement int32
}

func (f *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/attendance/validate-qr", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.validations, 1)
		var body struct {
			QRData string `json:"qr_data"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.QRData == "bad" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"Ubicación desconocida"}`))
			return
		}
		_, _ = w.Write([]byte(`{"location_id":"L1","organization_id":"O1"}`))
	})
	mux.HandleFunc("/api/attendance/register-face", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.registers, 1)
		_, _ = w.Write([]byte(`{"liveness":{"liveness_score":91,"spoof_flag":false}}`))
	})
	mux.HandleFunc("/api/attendance/today/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/api/announcements", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.announcement, 1)
		_, _ = w.Write([]byte(`[{"id":"a1","title":"Hola","body":"Bienvenidos"}]`))
	})
	mux.HandleFunc("/api/auth/organization/list", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/api/auth/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/api/notifications/unregister", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func setupApp(t *testing.T) (*fiber.App, *App, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{}
	srv := httptest.NewServer(fb.handler(t))
	t.Cleanup(srv.Close)

	cfg := config.Config{
		AppEnv:              "development",
		BackendURL:          srv.URL,
		BackendTimeout:      2 * time.Second,
		CacheTTL:            5 * time.Minute,
		ScanMinFraction:     0.8,
		LivenessMinScore:    70,
		LivenessSettleDelay: time.Millisecond,
		SubmissionGuardTTL:  time.Minute,
	}
	app := fiber.New()
	state, err := Setup(app, Deps{Cfg: cfg, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	return app, state, fb
}

func do(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

// 400x800 viewport: the QR box spans x 60..340, y 260..540.
var inFrame = []map[string]float64{{"x": 100, "y": 300}, {"x": 300, "y": 300}, {"x": 300, "y": 500}, {"x": 100, "y": 500}}

func TestScanFlowNavigatesOnce(t *testing.T) {
	app, _, fb := setupApp(t)

	status, body := do(t, app, http.MethodPost, "/api/v1/scan/sessions", map[string]any{
		"mode": "attendance", "viewport_width": 400, "viewport_height": 800,
	})
	require.Equal(t, http.StatusCreated, status)
	id := body["id"].(string)
	frames := "/api/v1/scan/sessions/" + id + "/frames"

	status, body = do(t, app, http.MethodPost, frames, map[string]any{"data": "qr", "corner_points": inFrame})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "navigate", body["status"])
	assert.Equal(t, "/biometrics?location_id=L1&organization_id=O1", body["route"])

	_, body = do(t, app, http.MethodPost, frames, map[string]any{"data": "qr", "corner_points": inFrame})
	assert.Equal(t, "busy", body["status"])
	assert.Equal(t, int32(1), atomic.LoadInt32(&fb.validations))

	status, _ = do(t, app, http.MethodDelete, "/api/v1/scan/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = do(t, app, http.MethodPost, frames, map[string]any{"data": "qr", "corner_points": inFrame})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestScanFailureAndAcknowledge(t *testing.T) {
	app, _, fb := setupApp(t)

	_, body := do(t, app, http.MethodPost, "/api/v1/scan/sessions", map[string]any{
		"mode": "attendance", "viewport_width": 400, "viewport_height": 800,
	})
	id := body["id"].(string)
	frames := "/api/v1/scan/sessions/" + id + "/frames"

	_, body = do(t, app, http.MethodPost, frames, map[string]any{"data": "bad", "corner_points": inFrame})
	assert.Equal(t, "alert", body["status"])
	outcome := body["outcome"].(map[string]any)
	assert.Equal(t, "Ubicación desconocida", outcome["message"])

	_, body = do(t, app, http.MethodPost, "/api/v1/scan/sessions/"+id+"/acknowledge", nil)
	assert.Equal(t, true, body["acknowledged"])

	_, body = do(t, app, http.MethodPost, frames, map[string]any{"data": "bad", "corner_points": inFrame})
	assert.Equal(t, "alert", body["status"])
	assert.Equal(t, int32(2), atomic.LoadInt32(&fb.validations))
}

func TestScanRejectsBadRequests(t *testing.T) {
	app, _, _ := setupApp(t)

	status, _ := do(t, app, http.MethodPost, "/api/v1/scan/sessions", map[string]any{"mode": "other", "viewport_width": 1, "viewport_height": 1})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = do(t, app, http.MethodPost, "/api/v1/scan/sessions", map[string]any{"mode": "visitor"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLivenessFlow(t *testing.T) {
	app, _, fb := setupApp(t)

	status, body := do(t, app, http.MethodPost, "/api/v1/liveness/sessions", nil)
	require.Equal(t, http.StatusCreated, status)
	base := "/api/v1/liveness/sessions/" + body["id"].(string)

	status, _ = do(t, app, http.MethodPost, base+"/captures", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = do(t, app, http.MethodPost, base+"/captures", map[string]any{"image": "data:image/jpeg;base64,AAAA"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "accepted", body["status"])

	_, body = do(t, app, http.MethodPost, base+"/captures", map[string]any{"image": "data:image/jpeg;base64,AAAA"})
	assert.Equal(t, "already_registered", body["status"])
	assert.Equal(t, int32(1), atomic.LoadInt32(&fb.registers))

	status, _ = do(t, app, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = do(t, app, http.MethodPost, base+"/retry", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAnnouncementsAreCached(t *testing.T) {
	app, _, fb := setupApp(t)

	status, body := do(t, app, http.MethodGet, "/api/v1/announcements", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["from_cache"])

	_, body = do(t, app, http.MethodGet, "/api/v1/announcements", nil)
	assert.Equal(t, true, body["from_cache"])

	_, _ = do(t, app, http.MethodGet, "/api/v1/announcements?refresh=true", nil)
	assert.Equal(t, int32(2), atomic.LoadInt32(&fb.announcement))

	status, _ = do(t, app, http.MethodPost, "/api/v1/auth/sign-out", map[string]any{"push_token": "tok"})
	assert.Equal(t, http.StatusNoContent, status)

	_, body = do(t, app, http.MethodGet, "/api/v1/announcements", nil)
	assert.Equal(t, false, body["from_cache"], "sign-out clears the cache")
}

func TestTodayAttendanceNotFound(t *testing.T) {
	app, _, _ := setupApp(t)

	status, body := do(t, app, http.MethodGet, "/api/v1/attendance/today/u1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "event")
	assert.Nil(t, body["event"])
}

func TestPermissionsRejectsUnknownStatus(t *testing.T) {
	app, _, _ := setupApp(t)
	status, _ := do(t, app, http.MethodGet, "/api/v1/permissions?status=cancelled", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHealthz(t *testing.T) {
	app, _, _ := setupApp(t)
	status, body := do(t, app, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"postgres": "disabled", "redis": "disabled", "nats": "disabled"}, body["status"])
}

func TestSetupRequiresInfrastructureOutsideDevelopment(t *testing.T) {
	_, err := Setup(fiber.New(), Deps{Cfg: config.Config{AppEnv: "production", BackendURL: "http://x"}, Logger: zaptest.NewLogger(t)})
	assert.ErrorContains(t, err, "database is required")
}

func TestLivenessRejectsFaceOutsideEllipse(t *testing.T) {
	app, _, fb := setupApp(t)

	_, body := do(t, app, http.MethodPost, "/api/v1/liveness/sessions", map[string]any{"viewport_width": 400, "viewport_height": 800})
	base := "/api/v1/liveness/sessions/" + body["id"].(string)

	outside := []map[string]float64{{"x": 5, "y": 5}, {"x": 395, "y": 5}, {"x": 395, "y": 795}, {"x": 5, "y": 795}}
	status, body := do(t, app, http.MethodPost, base+"/captures", map[string]any{"image": "img", "face_points": outside})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "out_of_frame", body["status"])
	assert.Zero(t, atomic.LoadInt32(&fb.registers))
}
