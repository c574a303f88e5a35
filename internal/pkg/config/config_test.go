package config

import (
	"context"
	"testing"
	"time"
)

func required() map[string]string {
	return map[string]string{
		"JWT_SECRET":             "s3cret",
		"DEFAULT_RESET_PASSWORD": "reset-me",
	}
}

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), required())
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}

	if cfg.Port != "8080" || cfg.Store != StoreMongo || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.TokenTTL != time.Hour || cfg.Auth.LoginLockout != 15*time.Minute || cfg.Auth.LoginMaxAttempts != 5 {
		t.Fatalf("unexpected auth defaults: %+v", cfg.Auth)
	}
	if cfg.Auth.AllowAdminRegistration {
		t.Fatal("admin registration must default to off")
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("redis must be disabled by default, got %q", cfg.Redis.Addr)
	}
	if cfg.Audit.Workers != 4 {
		t.Fatalf("expected 4 audit workers, got %d", cfg.Audit.Workers)
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	values := required()
	values["TOKEN_TTL"] = "30m"
	values["ALLOW_ADMIN_REGISTRATION"] = "true"
	values["STORE"] = "memory"
	values["REDIS_ADDR"] = "localhost:6379"
	values["ENV"] = "production"

	cfg, err := LoadWith(context.Background(), values)
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.Auth.TokenTTL != 30*time.Minute || !cfg.Auth.AllowAdminRegistration {
		t.Fatalf("overrides not applied: %+v", cfg.Auth)
	}
	if cfg.Store != StoreMemory || cfg.Redis.Addr != "localhost:6379" || !cfg.IsProduction() {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadWith_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{"missing secret", map[string]string{"DEFAULT_RESET_PASSWORD": "x"}},
		{"missing reset password", map[string]string{"JWT_SECRET": "x"}},
		{"unknown store", func() map[string]string { v := required(); v["STORE"] = "postgres"; return v }()},
		{"bad duration", func() map[string]string { v := required(); v["TOKEN_TTL"] = "soon"; return v }()},
		{"zero attempts", func() map[string]string { v := required(); v["LOGIN_MAX_ATTEMPTS"] = "0"; return v }()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadWith(context.Background(), tt.values); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
