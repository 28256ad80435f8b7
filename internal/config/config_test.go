package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, "development", cfg.Environment)
				assert.Equal(t, "", cfg.JWTSecret)
				assert.Equal(t, 24*time.Hour, cfg.TokenExpiration)
				assert.Equal(t, 30*time.Minute, cfg.TokenNearExpiryThreshold)
				assert.Equal(t, 60*time.Minute, cfg.TokenRefreshWindow)
				assert.Equal(t, 5*time.Minute, cfg.FreshnessReadThreshold)
				assert.Equal(t, 10*time.Minute, cfg.FreshnessWriteThreshold)
				assert.Equal(t, "localhost:6379", cfg.RedisAddr)
				assert.Equal(t, 2*time.Second, cfg.RedisOpTimeout)
				assert.False(t, cfg.BlacklistFailClosed)
				assert.Equal(t, 5*time.Minute, cfg.BlacklistStatsInterval)
				assert.True(t, cfg.RateLimitEnabled)
				assert.Equal(t, "auth_api", cfg.MetricsNamespace)
			},
		},
		{
			name: "load custom token configuration",
			envVars: map[string]string{
				"JWT_SECRET":                          "super-secret",
				"TOKEN_EXPIRATION_SECONDS":            "3600",
				"TOKEN_NEAR_EXPIRY_THRESHOLD_MINUTES": "15",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "super-secret", cfg.JWTSecret)
				assert.Equal(t, time.Hour, cfg.TokenExpiration)
				assert.Equal(t, 15*time.Minute, cfg.TokenNearExpiryThreshold)
			},
		},
		{
			name: "load custom blacklist configuration",
			envVars: map[string]string{
				"REDIS_ADDR":            "redis:6380",
				"REDIS_DB":              "2",
				"BLACKLIST_FAIL_CLOSED": "true",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "redis:6380", cfg.RedisAddr)
				assert.Equal(t, 2, cfg.RedisDB)
				assert.True(t, cfg.BlacklistFailClosed)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				require.NoError(t, os.Setenv(key, value))
			}
			defer func() {
				for key := range tt.envVars {
					_ = os.Unsetenv(key)
				}
			}()

			cfg := Load()
			tt.validate(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("missing secret is fatal", func(t *testing.T) {
		cfg := &Config{}
		require.Error(t, cfg.Validate())
	})

	t.Run("secret present", func(t *testing.T) {
		cfg := &Config{JWTSecret: "secret"}
		require.NoError(t, cfg.Validate())
	})
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{Environment: "production"}).IsProduction())
	assert.False(t, (&Config{Environment: "development"}).IsProduction())
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		expected string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.expected, cfg.GetGinMode())
		})
	}
}
