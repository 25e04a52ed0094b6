package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "5000" || cfg.Env != "development" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.Auth.JWTExpire != 7*24*time.Hour || cfg.Auth.BcryptCost != 12 {
		t.Fatalf("unexpected auth defaults: %+v", cfg.Auth)
	}
	if cfg.Store.Driver != DriverPostgres {
		t.Fatalf("expected postgres driver, got %q", cfg.Store.Driver)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.Max != 100 || cfg.RateLimit.Window != 15*time.Minute {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if !errors.Is(cfg.Validate(), ErrMissingJWTSecret) {
		t.Fatalf("expected missing secret to fail validation")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "s3cret",
		"JWT_EXPIRE":   "1h",
		"STORE_DRIVER": " SQLite ",
		"DATABASE_URL": ":memory:",
		"CORS_ORIGINS": "https://a.example,https://b.example",
		"ENV":          "production",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Store.Driver != DriverSQLite {
		t.Fatalf("expected sqlite, got %q", cfg.Store.Driver)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
	if !cfg.IsProduction() || cfg.Auth.JWTExpire != time.Hour {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestValidate_Rejects(t *testing.T) {
	base := func() *Config {
		return &Config{
			Auth:      AuthConfig{JWTSecret: "s", JWTExpire: time.Hour, BcryptCost: 10},
			Store:     StoreConfig{Driver: DriverPostgres, DatabaseURL: "postgres://x"},
			RateLimit: RateLimitConfig{Enabled: true, Max: 100, Window: time.Minute},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Store.Driver = "oracle" }},
		{"mongo without db", func(c *Config) { c.Store.Driver = DriverMongo; c.Mongo.URI = "mongodb://x" }},
		{"bcrypt cost", func(c *Config) { c.Auth.BcryptCost = 40 }},
		{"rate window", func(c *Config) { c.RateLimit.Window = 0 }},
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("base config invalid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if cfg.Validate() == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
