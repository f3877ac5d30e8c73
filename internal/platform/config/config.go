package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr           string
	DatabaseURL    string
	JWTSecret      string
	AdminPassword  string
	Environment    string
	RunMigrations  bool
	RunSeed        bool
	MigrationsDir  string
	CacheTTL       time.Duration
	MetricsEnabled bool
}

func Load() Config {
	// Missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	return Config{
		Addr:           getEnv("APP_ADDR", ":8080"),
		DatabaseURL:    NormalizeDatabaseURL(getEnv("DATABASE_URL", "")),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
		Environment:    getEnv("APP_ENV", "development"),
		RunMigrations:  getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:        getEnvBool("RUN_SEED", true),
		MigrationsDir:  getEnv("MIGRATIONS_DIR", "migrations"),
		CacheTTL:       getEnvDuration("CACHE_TTL", 60*time.Second),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
	}
}

// NormalizeDatabaseURL rewrites the postgres:// scheme to postgresql:// and,
// when the URL carries no query string, appends gssencmode=disable so the
// driver does not attempt GSS encryption against the managed provider.
func NormalizeDatabaseURL(raw string) string {
	url := strings.TrimSpace(raw)
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "postgres://") {
		url = "postgresql://" + strings.TrimPrefix(url, "postgres://")
	}
	if !strings.Contains(url, "?") {
		url += "?gssencmode=disable"
	}
	return url
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if strings.TrimSpace(c.AdminPassword) == "" {
			return fmt.Errorf("ADMIN_PASSWORD must be set in production")
		}
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative")
	}
	return nil
}
