package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if cfg.Remote.BaseURL != "http://localhost:5000" {
		t.Fatalf("unexpected remote base url: %q", cfg.Remote.BaseURL)
	}
	if cfg.Remote.Timeout != 10*time.Second {
		t.Fatalf("expected default remote timeout 10s, got %v", cfg.Remote.Timeout)
	}
	if cfg.Checkout.LeaseTTL != 2*time.Minute {
		t.Fatalf("expected default lease ttl 2m, got %v", cfg.Checkout.LeaseTTL)
	}
	if cfg.Checkout.DefaultPaymentMethod != "UPI" {
		t.Fatalf("unexpected default payment method %q", cfg.Checkout.DefaultPaymentMethod)
	}
	if cfg.Redis.Enabled {
		t.Fatalf("redis should be disabled by default")
	}
	if len(cfg.HTTP.CORSAllowedOrigins) != 1 || cfg.HTTP.CORSAllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected cors origins %v", cfg.HTTP.CORSAllowedOrigins)
	}
	if cfg.HTTP.SessionIdleTTL != 30*time.Minute {
		t.Fatalf("expected default session idle ttl 30m, got %v", cfg.HTTP.SessionIdleTTL)
	}
	if cfg.JWT.Verifies() {
		t.Fatalf("expected unverified tokens without a secret")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RejectsNonHTTPRemote(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvRemoteBaseURL, "ftp://inventory")

	if _, err := Load(); err == nil {
		t.Fatal("expected non-http remote url to fail")
	}
}

func TestLoad_RedisEnabledRequiresEndpoint(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvRedisEnabled, "true")

	if _, err := Load(); err == nil {
		t.Fatal("expected enabled redis without url to fail")
	}

	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Redis.Enabled || cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected redis config %+v", cfg.Redis)
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvRemoteBaseURL, "http://localhost:5000")
	t.Setenv(EnvRedisEnabled, "false")
	t.Setenv(EnvRedisURL, "")
	t.Setenv(EnvRedisAddr, "")
	t.Setenv(EnvJWTSecret, "")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
}
