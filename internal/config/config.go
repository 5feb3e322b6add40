// Package config reads the storefront settings from the environment once at
// startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	minSecretLen = 32
	maxPageSize  = 100
)

// Users backends.
const (
	UsersFile     = "file"
	UsersSQLite   = "sqlite"
	UsersPostgres = "postgres"
)

// CatalogPostgres selects the products table as the catalog source.
const CatalogPostgres = "postgres"

type Config struct {
	Port     string
	LogLevel string
	LogFile  string

	// Catalog is a file path, an http(s) URL, or "postgres".
	Catalog            string
	CatalogLoadTimeout time.Duration
	PageSize           int

	UsersBackend string
	UsersPath    string
	SQLitePath   string
	DatabaseURL  string

	// StoragePath is the bbolt file holding per-client state. Empty keeps
	// state in memory.
	StoragePath string

	JWTSecret    string
	TokenTTL     time.Duration
	CookieSecret string
	CookieSecure bool
	MetricsToken string

	LoginLimit    int
	RegisterLimit int
	LimitWindow   time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}

	var problems []string

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if len(cfg.JWTSecret) < minSecretLen {
		problems = append(problems, fmt.Sprintf("JWT_SECRET must be at least %d chars", minSecretLen))
	}
	cfg.CookieSecret = os.Getenv("COOKIE_SECRET")
	if len(cfg.CookieSecret) < minSecretLen {
		problems = append(problems, fmt.Sprintf("COOKIE_SECRET must be at least %d chars", minSecretLen))
	}

	cfg.Port = getEnvString("PORT", "8080")
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")
	cfg.LogFile = getEnvString("LOG_FILE", "")

	cfg.Catalog = getEnvString("CATALOG_SOURCE", "data/products.json")
	cfg.CatalogLoadTimeout = getEnvDuration("CATALOG_LOAD_TIMEOUT", 10*time.Second)
	cfg.PageSize = min(getEnvInt("PAGE_SIZE", 8), maxPageSize)

	cfg.UsersBackend = strings.ToLower(getEnvString("USERS_BACKEND", UsersFile))
	cfg.UsersPath = getEnvString("USERS_FILE", "data/users.json")
	cfg.SQLitePath = getEnvString("SQLITE_PATH", "data/users.db")
	cfg.DatabaseURL = getEnvString("DATABASE_URL", "")

	switch cfg.UsersBackend {
	case UsersFile, UsersSQLite:
	case UsersPostgres:
		if cfg.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required for USERS_BACKEND=postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown USERS_BACKEND %q", cfg.UsersBackend))
	}
	if cfg.Catalog == CatalogPostgres && cfg.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is required for CATALOG_SOURCE=postgres")
	}

	cfg.StoragePath = getEnvString("STORAGE_PATH", "")

	cfg.TokenTTL = getEnvDuration("TOKEN_TTL", 15*time.Minute)
	cfg.CookieSecure = getEnvBool("COOKIE_SECURE", false)
	cfg.MetricsToken = getEnvString("METRICS_TOKEN", "")

	cfg.LoginLimit = getEnvInt("RATE_LIMIT_LOGIN", 5)
	cfg.RegisterLimit = getEnvInt("RATE_LIMIT_REGISTER", 3)
	cfg.LimitWindow = getEnvDuration("RATE_LIMIT_WINDOW", time.Minute)

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

// UsesPostgres reports whether any component needs DATABASE_URL.
func (c *Config) UsesPostgres() bool {
	return c.UsersBackend == UsersPostgres || c.Catalog == CatalogPostgres
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}
