package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	// BaseURL is the public origin embedded in confirmation links.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080" validate:"required,url"`

	EmailProvider   string        `env:"EMAIL_PROVIDER" envDefault:"log" validate:"oneof=log http resend"`
	EmailSender     string        `env:"EMAIL_SENDER" envDefault:"newsletter@example.com" validate:"required"`
	EmailAPIBaseURL string        `env:"EMAIL_API_BASE_URL" validate:"required_if=EmailProvider http"`
	EmailAPIToken   string        `env:"EMAIL_API_TOKEN" validate:"required_if=EmailProvider http"`
	ResendAPIKey    string        `env:"RESEND_API_KEY" validate:"required_if=EmailProvider resend"`
	EmailTimeout    time.Duration `env:"EMAIL_TIMEOUT" envDefault:"10s" validate:"min=1ms"`

	PendingScanSchedule string        `env:"PENDING_SCAN_SCHEDULE" envDefault:"@every 5m" validate:"required"`
	PendingStaleAfter   time.Duration `env:"PENDING_STALE_AFTER" envDefault:"24h" validate:"min=1m"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Env != "local" && cfg.EmailProvider == "log" {
		return nil, errors.New("invalid config: EMAIL_PROVIDER=log is only allowed with ENV=local")
	}

	return cfg, nil
}

// SlogLevel maps LOG_LEVEL onto a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
