package config

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("COOKIE_SECRET", testSecret+"-cookie")
}

func TestLoad_DefaultValues(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.Catalog != "data/products.json" {
		t.Errorf("Catalog = %q", cfg.Catalog)
	}
	if cfg.CatalogLoadTimeout != 10*time.Second {
		t.Errorf("CatalogLoadTimeout = %v", cfg.CatalogLoadTimeout)
	}
	if cfg.PageSize != 8 {
		t.Errorf("PageSize = %d, want 8", cfg.PageSize)
	}
	if cfg.UsersBackend != UsersFile {
		t.Errorf("UsersBackend = %q, want %q", cfg.UsersBackend, UsersFile)
	}
	if cfg.StoragePath != "" {
		t.Errorf("StoragePath = %q, want empty", cfg.StoragePath)
	}
	if cfg.TokenTTL != 15*time.Minute {
		t.Errorf("TokenTTL = %v", cfg.TokenTTL)
	}
	if cfg.LoginLimit != 5 || cfg.RegisterLimit != 3 || cfg.LimitWindow != time.Minute {
		t.Errorf("limits = %d/%d per %v", cfg.LoginLimit, cfg.RegisterLimit, cfg.LimitWindow)
	}
	if cfg.UsesPostgres() {
		t.Error("UsesPostgres = true with defaults")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("PORT", "9000")
	t.Setenv("CATALOG_SOURCE", "https://example.com/products.json")
	t.Setenv("CATALOG_LOAD_TIMEOUT", "0s")
	t.Setenv("USERS_BACKEND", "SQLite")
	t.Setenv("STORAGE_PATH", "/tmp/state.db")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("PAGE_SIZE", "12")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Port != "9000" || cfg.Catalog != "https://example.com/products.json" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.CatalogLoadTimeout != 0 {
		t.Errorf("CatalogLoadTimeout = %v, want 0", cfg.CatalogLoadTimeout)
	}
	if cfg.UsersBackend != UsersSQLite {
		t.Errorf("UsersBackend = %q", cfg.UsersBackend)
	}
	if cfg.StoragePath != "/tmp/state.db" || !cfg.CookieSecure || cfg.PageSize != 12 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("PAGE_SIZE", "-3")
	t.Setenv("TOKEN_TTL", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.PageSize != 8 || cfg.TokenTTL != 15*time.Minute {
		t.Errorf("PageSize = %d TokenTTL = %v", cfg.PageSize, cfg.TokenTTL)
	}
}

func TestLoad_PageSizeCapped(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("PAGE_SIZE", "200")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.PageSize != 100 {
		t.Errorf("PageSize = %d, want 100", cfg.PageSize)
	}
}

func TestLoad_ShortSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("COOKIE_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for short secrets")
	}
	for _, want := range []string{"JWT_SECRET", "COOKIE_SECRET"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoad_PostgresNeedsDatabaseURL(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("USERS_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("err = %v", err)
	}

	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/store?sslmode=disable")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !cfg.UsesPostgres() {
		t.Error("UsesPostgres = false")
	}
}

func TestLoad_UnknownUsersBackend(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("USERS_BACKEND", "ldap")

	if _, err := Load(); err == nil {
		t.Fatal("expected error")
	}
}
