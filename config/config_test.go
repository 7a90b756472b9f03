package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/ErlanBelekov/newsletter/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/newsletter")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Env != "local" {
		t.Errorf("Env = %q, want local", cfg.Env)
	}
	if cfg.EmailProvider != "log" {
		t.Errorf("EmailProvider = %q, want log", cfg.EmailProvider)
	}
	if cfg.EmailTimeout != 10*time.Second {
		t.Errorf("EmailTimeout = %s, want 10s", cfg.EmailTimeout)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("SlogLevel = %v, want info", cfg.SlogLevel())
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestLoad_HTTPProviderRequiresBaseURLAndToken(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/newsletter")
	t.Setenv("EMAIL_PROVIDER", "http")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error when http provider has no base url or token")
	}

	t.Setenv("EMAIL_API_BASE_URL", "http://127.0.0.1:9999")
	t.Setenv("EMAIL_API_TOKEN", "secret")
	t.Setenv("EMAIL_TIMEOUT", "200ms")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.EmailTimeout != 200*time.Millisecond {
		t.Errorf("EmailTimeout = %s, want 200ms", cfg.EmailTimeout)
	}
}

func TestLoad_LogProviderRejectedOutsideLocal(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/newsletter")
	t.Setenv("ENV", "production")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for log provider in production")
	}
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		cfg := &config.Config{LogLevel: in}
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
