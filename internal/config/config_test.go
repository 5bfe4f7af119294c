package config

import (
	"testing"
	"time"
)

var allKeys = []string{
	"PORT",
	"HTTP_ADDR",
	"HTTP_READ_TIMEOUT_SEC",
	"HTTP_WRITE_TIMEOUT_SEC",
	"HTTP_SHUTDOWN_TIMEOUT_SEC",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"AUTH_JWT_SECRET",
	"AUTH_TOKEN_TTL_SEC",
	"AUTH_SESSION_TTL_SEC",
	"AUTH_COOKIE_SECURE",
	"CATALOGUE_SEED_FILE",
	"AUDIT_LOG_FILE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.HTTP.Addr != ":5000" {
		t.Fatalf("expected default HTTP addr :5000, got %q", cfg.HTTP.Addr)
	}
	if cfg.HTTP.ReadTimeout != 10*time.Second {
		t.Fatalf("expected default read timeout 10s, got %v", cfg.HTTP.ReadTimeout)
	}
	if cfg.HTTP.WriteTimeout != 15*time.Second {
		t.Fatalf("expected default write timeout 15s, got %v", cfg.HTTP.WriteTimeout)
	}
	if cfg.HTTP.ShutdownTimeout != 20*time.Second {
		t.Fatalf("expected default shutdown timeout 20s, got %v", cfg.HTTP.ShutdownTimeout)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Fatalf("unexpected log defaults: %+v", cfg.Log)
	}
	if cfg.Auth.JWTSecret == "" {
		t.Fatalf("expected a default jwt secret")
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Fatalf("expected default token ttl 24h, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.SessionTTL != 24*time.Hour {
		t.Fatalf("expected default session ttl 24h, got %v", cfg.Auth.SessionTTL)
	}
	if cfg.Auth.CookieSecure {
		t.Fatalf("expected insecure cookies by default")
	}
	if cfg.CatalogueSeedFile != "" {
		t.Fatalf("expected embedded seed by default, got %q", cfg.CatalogueSeedFile)
	}
	if cfg.AuditLogFile != "" {
		t.Fatalf("expected audit log disabled by default, got %q", cfg.AuditLogFile)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("HTTP_READ_TIMEOUT_SEC", "3")
	t.Setenv("HTTP_WRITE_TIMEOUT_SEC", "5")
	t.Setenv("HTTP_SHUTDOWN_TIMEOUT_SEC", "9")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("AUTH_JWT_SECRET", "s3cr3t")
	t.Setenv("AUTH_TOKEN_TTL_SEC", "600")
	t.Setenv("AUTH_SESSION_TTL_SEC", "300")
	t.Setenv("AUTH_COOKIE_SECURE", "true")
	t.Setenv("CATALOGUE_SEED_FILE", "/data/seed.yaml")
	t.Setenv("AUDIT_LOG_FILE", "/data/audit.log")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("expected overridden HTTP addr :9090, got %q", cfg.HTTP.Addr)
	}
	if cfg.HTTP.ReadTimeout != 3*time.Second || cfg.HTTP.WriteTimeout != 5*time.Second || cfg.HTTP.ShutdownTimeout != 9*time.Second {
		t.Fatalf("unexpected timeouts: %+v", cfg.HTTP)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Auth.JWTSecret != "s3cr3t" {
		t.Fatalf("expected overridden jwt secret, got %q", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.TokenTTL != 600*time.Second || cfg.Auth.SessionTTL != 300*time.Second {
		t.Fatalf("unexpected ttls: %+v", cfg.Auth)
	}
	if !cfg.Auth.CookieSecure {
		t.Fatalf("expected secure cookies")
	}
	if cfg.CatalogueSeedFile != "/data/seed.yaml" {
		t.Fatalf("expected overridden seed file, got %q", cfg.CatalogueSeedFile)
	}
	if cfg.AuditLogFile != "/data/audit.log" {
		t.Fatalf("expected overridden audit log file, got %q", cfg.AuditLogFile)
	}
}

func TestLoadPortFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("expected :7070 from PORT, got %q", cfg.HTTP.Addr)
	}
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_READ_TIMEOUT_SEC", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.HTTP.ReadTimeout != 10*time.Second {
		t.Fatalf("expected fallback read timeout 10s, got %v", cfg.HTTP.ReadTimeout)
	}
}

func TestLoadRejectsNonPositiveTTL(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_SESSION_TTL_SEC", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero session ttl")
	}
}
