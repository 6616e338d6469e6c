package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port     string
	LogLevel string
	LogFile  string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DSN        string
	SQLitePath string

	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	CookieSecure         bool

	ReviewsRequireApproval bool

	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// Load reads the configuration from the environment. Call godotenv.Load
// first if a .env file should be honored.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "movie_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DSN:        os.Getenv("DATABASE_DSN"),
		SQLitePath: getEnv("SQLITE_PATH", "data/movies.db"),

		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	var err error
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionSweepInterval, err = getDuration("SESSION_SWEEP", time.Hour); err != nil {
		return nil, err
	}
	if cfg.CookieSecure, err = getBool("COOKIE_SECURE", false); err != nil {
		return nil, err
	}
	if cfg.ReviewsRequireApproval, err = getBool("REVIEWS_REQUIRE_APPROVAL", false); err != nil {
		return nil, err
	}

	switch cfg.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}
	if cfg.SessionSweepInterval <= 0 {
		return nil, fmt.Errorf("SESSION_SWEEP must be positive")
	}

	return cfg, nil
}

// PostgresDSN builds the connection string unless DATABASE_DSN overrides it.
func (c *Config) PostgresDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
