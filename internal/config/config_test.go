package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		check   func(t *testing.T, cfg Config)
		wantErr string
	}{
		{
			name:    "defaults",
			envVars: map[string]string{"BACKEND_URL": "https://api.skyhr.test"},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "development", cfg.AppEnv)
				assert.Equal(t, ":8080", cfg.Address())
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
				assert.Equal(t, 0.8, cfg.ScanMinFraction)
				assert.Equal(t, 70.0, cfg.LivenessMinScore)
				assert.Equal(t, 100*time.Millisecond, cfg.LivenessSettleDelay)
				assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
				assert.Equal(t, 10*time.Minute, cfg.ScanSessionIdle)
				assert.Equal(t, 10*time.Minute, cfg.CaptureSessionIdle)
			},
		},
		{
			name: "overrides",
			envVars: map[string]string{
				"BACKEND_URL":           "https://api.skyhr.test",
				"PORT":                  ":9090",
				"LOG_LEVEL":             "DEBUG",
				"LOG_JSON":              "true",
				"CACHE_TTL":             "90s",
				"SCAN_MIN_FRACTION":     "1",
				"LIVENESS_MIN_SCORE":    "80",
				"LIVENESS_SETTLE_DELAY": "250ms",
				"SHUTDOWN_TIMEOUT":      "3s",
				"CAPTURE_SESSION_IDLE":  "2m",
			},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, ":9090", cfg.Address())
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.True(t, cfg.LogJSON)
				assert.Equal(t, 90*time.Second, cfg.CacheTTL)
				assert.Equal(t, 1.0, cfg.ScanMinFraction)
				assert.Equal(t, 80.0, cfg.LivenessMinScore)
				assert.Equal(t, 250*time.Millisecond, cfg.LivenessSettleDelay)
				assert.Equal(t, 3*time.Second, cfg.ShutdownPeriod)
				assert.Equal(t, 2*time.Minute, cfg.CaptureSessionIdle)
			},
		},
		{
			name:    "missing backend",
			envVars: map[string]string{},
			wantErr: "BACKEND_URL must be set",
		},
		{
			name: "production requires infrastructure",
			envVars: map[string]string{
				"APP_ENV":     "production",
				"BACKEND_URL": "https://api.skyhr.test",
			},
			wantErr: "DATABASE_URL must be set",
		},
		{
			name: "fraction out of range",
			envVars: map[string]string{
				"BACKEND_URL":       "https://api.skyhr.test",
				"SCAN_MIN_FRACTION": "1.5",
			},
			wantErr: "SCAN_MIN_FRACTION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"APP_ENV", "PORT", "LOG_LEVEL", "LOG_JSON", "BACKEND_URL", "CACHE_TTL",
				"SCAN_MIN_FRACTION", "LIVENESS_MIN_SCORE", "LIVENESS_SETTLE_DELAY", "SHUTDOWN_TIMEOUT",
				"DATABASE_URL", "REDIS_URL", "NATS_URL"} {
				t.Setenv(key, "")
				os.Unsetenv(key)
			}
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load("")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	for _, key := range []string{"BACKEND_URL", "CACHE_TTL", "APP_ENV"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	path := filepath.Join(t.TempDir(), "skyhr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend_url: https://file.skyhr.test\ncache_ttl: 2m\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://file.skyhr.test", cfg.BackendURL)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)

	t.Setenv("CACHE_TTL", "30s")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL, "environment wins over the file")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
