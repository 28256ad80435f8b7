// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"

	apperrors "github.com/allisson/auth-api/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the HTTP server will bind to.
	ServerHost string
	// ServerPort is the port number the HTTP server will listen on.
	ServerPort int

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// Environment is the deployment environment ("development" or "production").
	// Destructive blacklist operations are refused in production.
	Environment string

	// JWTSecret is the HMAC secret used to sign and verify tokens.
	// It has no default; a missing secret is a fatal startup error.
	JWTSecret string
	// TokenExpiration is the lifetime of newly issued tokens.
	TokenExpiration time.Duration
	// TokenNearExpiryThreshold is the default remaining-validity threshold below
	// which a token is reported as near expiry.
	TokenNearExpiryThreshold time.Duration
	// TokenRefreshWindow is the remaining-validity window within which a token
	// refresh is permitted.
	TokenRefreshWindow time.Duration

	// FreshnessReadThreshold is the minimum remaining validity required for
	// sensitive read operations.
	FreshnessReadThreshold time.Duration
	// FreshnessWriteThreshold is the minimum remaining validity required for
	// mutating operations.
	FreshnessWriteThreshold time.Duration

	// RedisAddr is the address of the Redis server backing the blacklist.
	RedisAddr string
	// RedisDB is the Redis database number.
	RedisDB int
	// RedisPassword is the Redis password (empty for no auth).
	RedisPassword string
	// RedisOpTimeout bounds every blacklist store operation.
	RedisOpTimeout time.Duration

	// BlacklistFailClosed selects the revocation-check policy when the store is
	// unreachable: false (default) fails open, true rejects requests.
	BlacklistFailClosed bool
	// BlacklistStatsInterval is how often the periodic stats report runs.
	BlacklistStatsInterval time.Duration

	// RateLimitEnabled indicates whether route-class rate limiting is enabled.
	RateLimitEnabled bool

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Environment
		Environment: env.GetString("ENVIRONMENT", "development"),

		// Tokens
		JWTSecret:                env.GetString("JWT_SECRET", ""),
		TokenExpiration:          env.GetDuration("TOKEN_EXPIRATION_SECONDS", 86400, time.Second),
		TokenNearExpiryThreshold: env.GetDuration("TOKEN_NEAR_EXPIRY_THRESHOLD_MINUTES", 30, time.Minute),
		TokenRefreshWindow:       env.GetDuration("TOKEN_REFRESH_WINDOW_MINUTES", 60, time.Minute),

		// Freshness guards
		FreshnessReadThreshold:  env.GetDuration("FRESHNESS_READ_THRESHOLD_MINUTES", 5, time.Minute),
		FreshnessWriteThreshold: env.GetDuration("FRESHNESS_WRITE_THRESHOLD_MINUTES", 10, time.Minute),

		// Redis / blacklist
		RedisAddr:              env.GetString("REDIS_ADDR", "localhost:6379"),
		RedisDB:                env.GetInt("REDIS_DB", 0),
		RedisPassword:          env.GetString("REDIS_PASSWORD", ""),
		RedisOpTimeout:         env.GetDuration("REDIS_OP_TIMEOUT_MS", 2000, time.Millisecond),
		BlacklistFailClosed:    env.GetBool("BLACKLIST_FAIL_CLOSED", false),
		BlacklistStatsInterval: env.GetDuration("BLACKLIST_STATS_INTERVAL_SECONDS", 300, time.Second),

		// Rate limiting
		RateLimitEnabled: env.GetBool("RATE_LIMIT_ENABLED", true),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "auth_api"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// Validate checks that mandatory configuration values are present.
// A missing JWT secret is fatal at startup, never a per-request error.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return apperrors.New("JWT_SECRET environment variable is required")
	}
	return nil
}

// IsProduction reports whether the service runs in a production configuration.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
