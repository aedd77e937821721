package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:5000/api" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Session.TokenLifetime != 50*time.Minute {
		t.Errorf("TokenLifetime = %v", cfg.Session.TokenLifetime)
	}
	if cfg.Session.RefreshLead != 60*time.Second {
		t.Errorf("RefreshLead = %v", cfg.Session.RefreshLead)
	}
	if cfg.State.Path == "" {
		t.Error("State.Path is empty")
	}
	if cfg.Logger.Level != "info" {
		t.Errorf("Logger.Level = %q", cfg.Logger.Level)
	}
}

func TestLoadHonoursEnvironment(t *testing.T) {
	t.Setenv("SERVER_API", "https://shop.example.com/api")
	t.Setenv("TOKEN_LIFETIME", "15m")
	t.Setenv("REFRESH_LEAD", "30s")
	t.Setenv("STATE_PATH", "/tmp/shoplite-test.db")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://shop.example.com/api" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Session.TokenLifetime != 15*time.Minute {
		t.Errorf("TokenLifetime = %v", cfg.Session.TokenLifetime)
	}
	if cfg.Session.RefreshLead != 30*time.Second {
		t.Errorf("RefreshLead = %v", cfg.Session.RefreshLead)
	}
	if cfg.State.Path != "/tmp/shoplite-test.db" {
		t.Errorf("State.Path = %q", cfg.State.Path)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("Logger.Level = %q", cfg.Logger.Level)
	}
}

func TestDurationAcceptsBareSeconds(t *testing.T) {
	t.Setenv("REFRESH_LEAD", "90")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.RefreshLead != 90*time.Second {
		t.Errorf("RefreshLead = %v, want 90s", cfg.Session.RefreshLead)
	}
}
