package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"API_ADDR", "DATABASE_URL", "REDIS_URL", "CHRONICLE_HISTORY_CAPACITY", "CHRONICLE_PRESENCE_TTL_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Addr != ":8787" {
		t.Errorf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.DatabaseURL != "" || cfg.RedisURL != "" {
		t.Errorf("expected optional backends to be disabled, got %q %q", cfg.DatabaseURL, cfg.RedisURL)
	}
	if cfg.HistoryCapacity != 240 {
		t.Errorf("expected capacity 240, got %d", cfg.HistoryCapacity)
	}
	if cfg.PresenceTTL != 2*time.Minute {
		t.Errorf("expected presence ttl 2m, got %s", cfg.PresenceTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CHRONICLE_HISTORY_CAPACITY", "12")
	t.Setenv("CHRONICLE_PRESENCE_TTL_SECONDS", "not-a-number")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg := Load()
	if cfg.HistoryCapacity != 12 {
		t.Errorf("expected capacity 12, got %d", cfg.HistoryCapacity)
	}
	if cfg.PresenceTTL != 2*time.Minute {
		t.Errorf("expected invalid ttl to fall back, got %s", cfg.PresenceTTL)
	}
	if cfg.RedisURL != "redis://localhost:6379/1" {
		t.Errorf("unexpected redis url %q", cfg.RedisURL)
	}
}
