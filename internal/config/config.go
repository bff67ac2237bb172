package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultAppName             = "SkyHR"
	defaultAppEnv              = "development"
	defaultPort                = "8080"
	defaultLogLevel            = "info"
	defaultBackendTimeout      = 15 * time.Second
	defaultCacheTTL            = 5 * time.Minute
	defaultScanMinFraction     = 0.8
	defaultLivenessMinScore    = 70.0
	defaultLivenessSettleDelay = 100 * time.Millisecond
	defaultShutdownPeriod      = 10 * time.Second
	defaultSubmissionGuardTTL  = 30 * time.Second
	defaultScanSessionIdle     = 10 * time.Minute
	defaultCaptureSessionIdle  = 10 * time.Minute
)

// Config captures application runtime configuration.
type Config struct {
	AppName             string        `mapstructure:"app_name"`
	AppEnv              string        `mapstructure:"app_env"`
	Port                string        `mapstructure:"port"`
	LogLevel            string        `mapstructure:"log_level"`
	LogJSON             bool          `mapstructure:"log_json"`
	DatabaseURL         string        `mapstructure:"database_url"`
	RedisURL            string        `mapstructure:"redis_url"`
	NATSURL             string        `mapstructure:"nats_url"`
	BackendURL          string        `mapstructure:"backend_url"`
	BackendToken        string        `mapstructure:"backend_token"`
	BackendTimeout      time.Duration `mapstructure:"backend_timeout"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
	ScanMinFraction     float64       `mapstructure:"scan_min_fraction"`
	ScanSessionIdle     time.Duration `mapstructure:"scan_session_idle"`
	CaptureSessionIdle  time.Duration `mapstructure:"capture_session_idle"`
	LivenessMinScore    float64       `mapstructure:"liveness_min_score"`
	LivenessSettleDelay time.Duration `mapstructure:"liveness_settle_delay"`
	ShutdownPeriod      time.Duration `mapstructure:"shutdown_timeout"`
	SubmissionGuardTTL  time.Duration `mapstructure:"submission_guard_ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", defaultAppName)
	v.SetDefault("app_env", defaultAppEnv)
	v.SetDefault("port", defaultPort)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("log_json", false)
	v.SetDefault("database_url", "")
	v.SetDefault("redis_url", "")
	v.SetDefault("nats_url", "")
	v.SetDefault("backend_url", "")
	v.SetDefault("backend_token", "")
	v.SetDefault("backend_timeout", defaultBackendTimeout)
	v.SetDefault("cache_ttl", defaultCacheTTL)
	v.SetDefault("scan_min_fraction", defaultScanMinFraction)
	v.SetDefault("scan_session_idle", defaultScanSessionIdle)
	v.SetDefault("capture_session_idle", defaultCaptureSessionIdle)
	v.SetDefault("liveness_min_score", defaultLivenessMinScore)
	v.SetDefault("liveness_settle_delay", defaultLivenessSettleDelay)
	v.SetDefault("shutdown_timeout", defaultShutdownPeriod)
	v.SetDefault("submission_guard_ttl", defaultSubmissionGuardTTL)
}

// Load reads configuration from defaults, an optional config file and the
// environment, in increasing order of precedence.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required settings and ranges.
func (c Config) Validate() error {
	var errs []error
	if c.BackendURL == "" {
		errs = append(errs, errors.New("BACKEND_URL must be set"))
	}
	if !c.IsDevelopment() {
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL must be set"))
		}
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL must be set"))
		}
		if c.NATSURL == "" {
			errs = append(errs, errors.New("NATS_URL must be set"))
		}
	}
	if c.ScanMinFraction <= 0 || c.ScanMinFraction > 1 {
		errs = append(errs, fmt.Errorf("SCAN_MIN_FRACTION must be in (0, 1], got %v", c.ScanMinFraction))
	}
	if c.LivenessMinScore <= 0 {
		errs = append(errs, fmt.Errorf("LIVENESS_MIN_SCORE must be positive, got %v", c.LivenessMinScore))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL))
	}
	if c.LivenessSettleDelay < 0 {
		errs = append(errs, fmt.Errorf("LIVENESS_SETTLE_DELAY cannot be negative, got %s", c.LivenessSettleDelay))
	}
	return errors.Join(errs...)
}

// IsDevelopment reports whether optional infrastructure may be absent.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == defaultAppEnv
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}
