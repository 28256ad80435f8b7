package http

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/allisson/auth-api/internal/httputil"
)

// RouteClass identifies a group of routes sharing a rate limit policy.
type RouteClass string

// Route classes with dedicated rate limit policies.
const (
	RouteClassLogin        RouteClass = "login"
	RouteClassRegistration RouteClass = "registration"
	RouteClassAdmin        RouteClass = "admin"
	RouteClassRefresh      RouteClass = "refresh"
)

// Policy bounds the number of attempts an identity may make within a window.
type Policy struct {
	Window      time.Duration
	MaxAttempts int
}

// DefaultPolicies returns the per-class policies. Login and registration are
// strict (credential stuffing, account spam), admin is loose enough for
// legitimate operational bursts, refresh sits in between.
func DefaultPolicies() map[RouteClass]Policy {
	return map[RouteClass]Policy{
		RouteClassLogin:        {Window: 15 * time.Minute, MaxAttempts: 5},
		RouteClassRegistration: {Window: 60 * time.Minute, MaxAttempts: 3},
		RouteClassAdmin:        {Window: 5 * time.Minute, MaxAttempts: 20},
		RouteClassRefresh:      {Window: 10 * time.Minute, MaxAttempts: 10},
	}
}

// rateLimiterEntry holds a limiter and last access time for cleanup.
type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// RateLimiter enforces per-identity, per-route-class rate limits using a
// token bucket: the bucket starts full with MaxAttempts tokens and refills at
// MaxAttempts per Window, so a burst up to the full budget is allowed and
// sustained traffic converges on the policy rate.
type RateLimiter struct {
	policies map[RouteClass]Policy
	limiters sync.Map // map[string]*rateLimiterEntry keyed by class+identity
	logger   *slog.Logger
}

// NewRateLimiter creates a RateLimiter with the given policies and starts a
// background cleanup of stale per-identity limiters. The cleanup goroutine
// exits when ctx is canceled.
func NewRateLimiter(ctx context.Context, policies map[RouteClass]Policy, logger *slog.Logger) *RateLimiter {
	r := &RateLimiter{
		policies: policies,
		logger:   logger,
	}

	go r.cleanupStale(ctx, 5*time.Minute)

	return r
}

// Middleware returns a Gin middleware enforcing the policy of the given route
// class, keyed by client IP. Denied requests get 429 with a Retry-After header.
//
// An unknown route class passes everything through; limiting is a policy
// table lookup, not a guess.
func (r *RateLimiter) Middleware(class RouteClass) gin.HandlerFunc {
	policy, ok := r.policies[class]
	if !ok {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		identity := c.ClientIP()
		limiter := r.getLimiter(string(class)+"|"+identity, policy)

		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(reservation.Delay().Seconds())
			reservation.Cancel()
			if retryAfter < 1 {
				retryAfter = 1
			}

			r.logger.Debug("rate limit exceeded",
				slog.String("route_class", string(class)),
				slog.String("identity", identity),
				slog.Int("retry_after", retryAfter))

			httputil.TooManyRequests(c, "too many requests, please try again later", retryAfter)
			c.Abort()
			return
		}

		c.Next()
	}
}

// getLimiter retrieves or creates the limiter for a class+identity key.
func (r *RateLimiter) getLimiter(key string, policy Policy) *rate.Limiter {
	if val, ok := r.limiters.Load(key); ok {
		entry := val.(*rateLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = time.Now()
		entry.mu.Unlock()
		return entry.limiter
	}

	refill := rate.Limit(float64(policy.MaxAttempts) / policy.Window.Seconds())
	entry := &rateLimiterEntry{
		limiter:    rate.NewLimiter(refill, policy.MaxAttempts),
		lastAccess: time.Now(),
	}

	// Another goroutine may have raced us; use whichever entry won.
	actual, _ := r.limiters.LoadOrStore(key, entry)
	return actual.(*rateLimiterEntry).limiter
}

// cleanupStale drops limiters not accessed in the last hour to keep the
// per-identity map from growing without bound.
func (r *RateLimiter) cleanupStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			threshold := time.Now().Add(-1 * time.Hour)
			r.limiters.Range(func(key, value any) bool {
				entry := value.(*rateLimiterEntry)
				entry.mu.Lock()
				stale := entry.lastAccess.Before(threshold)
				entry.mu.Unlock()

				if stale {
					r.limiters.Delete(key)
				}
				return true
			})
		}
	}
}
