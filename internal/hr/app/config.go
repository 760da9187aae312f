package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string // Environment (development, production) (default: development)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 5000)

	// Database. Driver selects postgres (production) or sqlite (dev/tests).
	DBDriver        string
	DBHost          string
	DBPort          int
	DBName          string
	DBUser          string
	DBPassword      string
	DBFile          string        // sqlite only
	DBMaxConns      int32         // postgres pool size
	DBConnTimeout   time.Duration // postgres connection/acquire timeout
	DBIdleTimeout   time.Duration // postgres idle-connection reap timeout

	JWTSecret    string        // Required: HS256 signing secret
	JWTIssuer    string        // Issuer claim for session tokens
	JWTExpiresIn time.Duration // Session token lifetime (default: 7d)

	FrontendURL string // Browser origin allowed by CORS
	UploadDir   string // Resume storage directory (default: ./uploads/resumes)

	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingSchedule string        // Cron schedule for the resume sweep (default: @every 1h)
	HousekeepingMinAge   time.Duration // Minimum orphan age before sweeping (default: 24h)
}

// LoadConfig reads configuration from the environment, after loading a .env
// file when one is present.
func LoadConfig() (Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Env:       getEnvOrDefault("ENV", getEnvOrDefault("NODE_ENV", "development")),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
		Port:      getEnvIntOrDefault("PORT", 5000),

		DBDriver:      getEnvOrDefault("DB_DRIVER", "postgres"),
		DBHost:        getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:        getEnvIntOrDefault("DB_PORT", 5432),
		DBName:        getEnvOrDefault("DB_NAME", "peoplepulse"),
		DBUser:        getEnvOrDefault("DB_USER", "postgres"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBFile:        getEnvOrDefault("DB_FILE", "peoplepulse.db"),
		DBMaxConns:    int32(getEnvIntOrDefault("DB_MAX_CONNS", 20)),
		DBConnTimeout: getEnvDurationOrDefault("DB_CONN_TIMEOUT", 2*time.Second),
		DBIdleTimeout: getEnvDurationOrDefault("DB_IDLE_TIMEOUT", 30*time.Second),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTIssuer:    getEnvOrDefault("JWT_ISSUER", "peoplepulse"),
		JWTExpiresIn: getEnvDurationOrDefault("JWT_EXPIRES_IN", 7*24*time.Hour),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		UploadDir:   getEnvOrDefault("UPLOAD_DIR", "uploads/resumes"),

		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingSchedule: getEnvOrDefault("HOUSEKEEPING_SCHEDULE", "@every 1h"),
		HousekeepingMinAge:   getEnvDurationOrDefault("HOUSEKEEPING_MIN_AGE", 24*time.Hour),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

// PostgresURL assembles the pgx connection string.
func (c Config) PostgresURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:   c.DBName,
	}
	q := u.Query()
	q.Set("sslmode", "prefer")
	u.RawQuery = q.Encode()
	return u.String()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g. "1h", "30m", "90s").
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Accept day shorthand ("7d") the way the JWT_EXPIRES_IN setting has
	// historically been written.
	if len(value) > 1 && value[len(value)-1] == 'd' {
		if days, err := strconv.Atoi(value[:len(value)-1]); err == nil {
			return time.Duration(days) * 24 * time.Hour
		}
	}

	return defaultValue
}
