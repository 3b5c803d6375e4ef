package config

import (
	"testing"
	"time"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("CONFIG_ENV", "nonexistent")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 3001 {
		t.Fatalf("default port: got %d", cfg.Port)
	}
	if cfg.RoomCapacity != 6 {
		t.Fatalf("default room capacity: got %d", cfg.RoomCapacity)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("default origins: got %v", cfg.AllowedOrigins)
	}
	if cfg.PingPeriod != 54*time.Second {
		t.Fatalf("default ping period: got %v", cfg.PingPeriod)
	}
	if cfg.Mode != "release" {
		t.Fatalf("default mode: got %q", cfg.Mode)
	}
}

func TestPortEnvOverride(t *testing.T) {
	t.Setenv("CONFIG_ENV", "nonexistent")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9090 {
		t.Fatalf("PORT should win over the default, got %d", cfg.Port)
	}
}
