// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing or malformed, the process exits with an error.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the marketplace service.
type Config struct {
	HTTPPort string
	GRPCPort string

	// DatabaseURL empty means the in-memory store (development only).
	DatabaseURL   string
	DBMaxConns    int32
	RunMigrations bool

	// RedisURL empty disables event publishing and rate limiting.
	RedisURL string

	JWTSecret string
	TokenTTL  time.Duration

	// ExpirySweepSpec is a cron spec; "off" disables the sweep.
	ExpirySweepSpec string

	ApplyRateLimitPerMin int
	LoginRateLimitPerMin int

	LogLevel slog.Level

	// Admin seed account; skipped when AdminEmail is empty.
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// SweepEnabled reports whether the expiry cron should run.
func (c *Config) SweepEnabled() bool {
	return !strings.EqualFold(c.ExpirySweepSpec, "off") && c.ExpirySweepSpec != ""
}

// Load reads a .env file when present, then the environment, and returns a validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	cfg := &Config{
		HTTPPort:        envOr("HTTP_PORT", "8080"),
		GRPCPort:        envOr("GRPC_PORT", "9090"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		JWTSecret:       secret,
		ExpirySweepSpec: envOr("EXPIRY_SWEEP_SPEC", "@daily"),
		AdminName:       envOr("ADMIN_NAME", "Platform Admin"),
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
	}

	var err error
	if cfg.TokenTTL, err = duration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive")
	}
	if cfg.ApplyRateLimitPerMin, err = integer("APPLY_RATE_LIMIT_PER_MIN", 10); err != nil {
		return nil, err
	}
	if cfg.LoginRateLimitPerMin, err = integer("LOGIN_RATE_LIMIT_PER_MIN", 20); err != nil {
		return nil, err
	}
	maxConns, err := integer("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	if maxConns < 1 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be at least 1")
	}
	cfg.DBMaxConns = int32(maxConns)
	if cfg.RunMigrations, err = boolean("RUN_MIGRATIONS", true); err != nil {
		return nil, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(envOr("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if cfg.AdminEmail != "" && len(cfg.AdminPassword) < 6 {
		return nil, fmt.Errorf("ADMIN_PASSWORD must be at least 6 characters when ADMIN_EMAIL is set")
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func integer(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func boolean(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
