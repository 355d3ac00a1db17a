package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const secret = "0123456789abcdef0123456789abcdef"

func parse(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return Parse(context.Background(), envconfig.MapLookuper(env))
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := parse(t, map[string]string{"JWT_SECRET": secret})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.Port != "8080" || cfg.StoreDriver != StoreMongo || !cfg.IsDevelopment() {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.Auth.SessionTTL != time.Hour || cfg.Auth.BcryptCost != 10 || cfg.Auth.JWTIssuer != "accounts" {
		t.Fatalf("unexpected auth defaults: %+v", cfg.Auth)
	}
	if cfg.Reset.TokenTTL != time.Hour || cfg.Reset.RateLimit != 3 || cfg.Reset.RateWindow != 15*time.Minute {
		t.Fatalf("unexpected reset defaults: %+v", cfg.Reset)
	}
	if cfg.Reset.FrontendURL != "http://localhost:3000" {
		t.Fatalf("frontend url = %q", cfg.Reset.FrontendURL)
	}
	if len(cfg.HTTP.CORSOrigins) != 3 || cfg.HTTP.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("cors origins = %v", cfg.HTTP.CORSOrigins)
	}
	if cfg.SMTP.Host != "" || cfg.SMTP.Port != 587 || cfg.Redis.Addr != "" {
		t.Fatalf("unexpected transport defaults: smtp=%+v redis=%+v", cfg.SMTP, cfg.Redis)
	}
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := parse(t, map[string]string{
		"JWT_SECRET":          secret,
		"SESSION_TTL":         "30m",
		"STORE_DRIVER":        "memory",
		"AUTH_REQUIRE_ACTIVE": "true",
		"CORS_ORIGINS":        "https://app.example.com",
		"REDIS_ADDR":          "redis:6379",
		"SMTP_HOST":           "smtp.example.com",
		"SMTP_TLS":            "mandatory",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Auth.SessionTTL != 30*time.Minute || cfg.StoreDriver != StoreMemory || !cfg.Auth.RequireActive {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.HTTP.CORSOrigins) != 1 || cfg.Redis.Addr != "redis:6379" || cfg.SMTP.Host != "smtp.example.com" {
		t.Fatalf("overrides not applied: %+v %+v", cfg.HTTP, cfg.SMTP)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret": {},
		"short secret":   {"JWT_SECRET": "short"},
		"bad driver":     {"JWT_SECRET": secret, "STORE_DRIVER": "postgres"},
		"bad ttl":        {"JWT_SECRET": secret, "SESSION_TTL": "0s"},
		"bad limit":      {"JWT_SECRET": secret, "RESET_RATE_LIMIT": "0"},
		"bad tls":        {"JWT_SECRET": secret, "SMTP_TLS": "sometimes"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := parse(t, env); err == nil || !strings.HasPrefix(err.Error(), "config:") {
				t.Fatalf("expected config error, got %v", err)
			}
		})
	}
}
