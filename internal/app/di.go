// Package app provides the dependency injection container assembling the
// application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	authRepository "github.com/allisson/auth-api/internal/auth/repository"
	authService "github.com/allisson/auth-api/internal/auth/service"
	authUseCase "github.com/allisson/auth-api/internal/auth/usecase"
	"github.com/allisson/auth-api/internal/config"
	"github.com/allisson/auth-api/internal/database"
	"github.com/allisson/auth-api/internal/http"
	"github.com/allisson/auth-api/internal/metrics"
	"github.com/allisson/auth-api/internal/scheduler"
	userRepository "github.com/allisson/auth-api/internal/user/repository"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger      *slog.Logger
	redisClient *redis.Client

	// Repositories
	blacklistRepo authUseCase.BlacklistRepository
	userStore     *userRepository.InMemoryUserRepository

	// Services and use cases
	tokenService     authService.TokenService
	blacklistUseCase authUseCase.BlacklistUseCase

	// Observability
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Servers and workers
	scheduler     *scheduler.Scheduler
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                   sync.Mutex
	loggerInit           sync.Once
	redisInit            sync.Once
	blacklistRepoInit    sync.Once
	userStoreInit        sync.Once
	tokenServiceInit     sync.Once
	blacklistUseCaseInit sync.Once
	metricsProviderInit  sync.Once
	businessMetricsInit  sync.Once
	schedulerInit        sync.Once
	httpServerInit       sync.Once
	metricsServerInit    sync.Once
	initErrors           map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// RedisClient returns the Redis client backing the blacklist.
func (c *Container) RedisClient(ctx context.Context) (*redis.Client, error) {
	c.redisInit.Do(func() {
		client, err := database.Connect(ctx, database.Config{
			Addr:     c.config.RedisAddr,
			DB:       c.config.RedisDB,
			Password: c.config.RedisPassword,
		})
		if err != nil {
			c.initErrors["redis"] = err
			return
		}
		c.redisClient = client
	})
	if storedErr, exists := c.initErrors["redis"]; exists {
		return nil, storedErr
	}
	return c.redisClient, nil
}

// BlacklistRepository returns the Redis-backed blacklist repository.
func (c *Container) BlacklistRepository(ctx context.Context) (authUseCase.BlacklistRepository, error) {
	c.blacklistRepoInit.Do(func() {
		client, err := c.RedisClient(ctx)
		if err != nil {
			c.initErrors["blacklistRepo"] = fmt.Errorf("failed to get redis client for blacklist repository: %w", err)
			return
		}
		c.blacklistRepo = authRepository.NewRedisBlacklistRepository(client, c.config.RedisOpTimeout)
	})
	if storedErr, exists := c.initErrors["blacklistRepo"]; exists {
		return nil, storedErr
	}
	return c.blacklistRepo, nil
}

// UserStore returns the in-process user store used to resolve token subjects.
// Embedding applications register their users here before serving traffic.
func (c *Container) UserStore() *userRepository.InMemoryUserRepository {
	c.userStoreInit.Do(func() {
		c.userStore = userRepository.NewInMemoryUserRepository()
	})
	return c.userStore
}

// TokenService returns the token service instance.
func (c *Container) TokenService() authService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = authService.NewTokenService(c.config.JWTSecret, c.config.TokenExpiration)
	})
	return c.tokenService
}

// BlacklistUseCase returns the blacklist use case, decorated with metrics
// when metrics are enabled.
func (c *Container) BlacklistUseCase(ctx context.Context) (authUseCase.BlacklistUseCase, error) {
	c.blacklistUseCaseInit.Do(func() {
		repo, err := c.BlacklistRepository(ctx)
		if err != nil {
			c.initErrors["blacklistUseCase"] = fmt.Errorf("failed to get blacklist repository for use case: %w", err)
			return
		}

		useCase := authUseCase.NewBlacklistUseCase(c.config, repo, c.TokenService(), c.Logger())

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["blacklistUseCase"] = fmt.Errorf("failed to get business metrics for use case: %w", err)
			return
		}

		c.blacklistUseCase = authUseCase.NewBlacklistUseCaseWithMetrics(useCase, businessMetrics)
	})
	if storedErr, exists := c.initErrors["blacklistUseCase"]; exists {
		return nil, storedErr
	}
	return c.blacklistUseCase, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op
// implementation is returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}

		businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}
		c.businessMetrics = businessMetrics
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// Scheduler returns the background task scheduler.
func (c *Container) Scheduler() *scheduler.Scheduler {
	c.schedulerInit.Do(func() {
		c.scheduler = scheduler.New(c.Logger())
	})
	return c.scheduler
}

// HTTPServer returns the operational HTTP server instance.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	c.httpServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}

		client, err := c.RedisClient(ctx)
		if err != nil {
			c.initErrors["httpServer"] = fmt.Errorf("failed to get redis client for http server: %w", err)
			return
		}

		storeCheck := func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}

		c.httpServer = http.NewServer(c.config, c.Logger(), provider, storeCheck)
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}

		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.scheduler != nil {
		c.scheduler.CancelAll()
	}

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("redis close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}
