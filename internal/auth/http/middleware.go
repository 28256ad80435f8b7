package http

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/auth-api/internal/auth/domain"
	authService "github.com/allisson/auth-api/internal/auth/service"
	authUseCase "github.com/allisson/auth-api/internal/auth/usecase"
	apperrors "github.com/allisson/auth-api/internal/errors"
	"github.com/allisson/auth-api/internal/httputil"
)

// extractBearerToken pulls the token out of the Authorization header.
// The "Bearer" prefix is matched case-insensitively. Returns "" when the
// header is missing, malformed, or carries an empty token.
func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	const bearerPrefix = "bearer "
	if len(authHeader) < len(bearerPrefix) ||
		!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}

	return authHeader[len(bearerPrefix):]
}

// AuthenticationMiddleware authenticates requests via a Bearer token in the
// Authorization header.
//
// The pass runs in a fixed order:
// 1. Extract the token from the Authorization header
// 2. Check the revocation blacklist (before signature verification, so a
//    revoked token is rejected even if it would otherwise verify)
// 3. Verify signature, time window, issuer, and audience
// 4. Resolve the token subject to a user record
// 5. Store the Auth result in the request context for downstream handlers
//
// Every failure aborts with 401 and a kind-specific message; the revocation
// check failing against an unreachable store follows the configured
// fail-open/fail-closed policy via BlacklistUseCase.IsRevoked.
func AuthenticationMiddleware(
	blacklistUseCase authUseCase.BlacklistUseCase,
	tokenService authService.TokenService,
	userStore authUseCase.UserStore,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			logger.Debug("authentication failed: missing bearer token")
			httputil.Unauthorized(c, "access token required")
			c.Abort()
			return
		}

		revoked, err := blacklistUseCase.IsRevoked(c.Request.Context(), token)
		if err != nil {
			logger.Error("revocation check failed", slog.Any("error", err))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}
		if revoked {
			logger.Debug("authentication failed: token revoked")
			httputil.Unauthorized(c, "token revoked")
			c.Abort()
			return
		}

		claims, err := tokenService.Verify(token)
		if err != nil {
			logger.Debug("authentication failed", slog.Any("error", err))
			httputil.Unauthorized(c, verificationFailureMessage(err))
			c.Abort()
			return
		}

		user, err := userStore.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				logger.Debug("authentication failed: subject not found",
					slog.String("user_id", claims.UserID.String()))
				httputil.Unauthorized(c, "subject not found")
			} else {
				logger.Error("subject lookup failed", slog.Any("error", err))
				httputil.HandleErrorGin(c, err, logger)
			}
			c.Abort()
			return
		}

		ctx := WithAuth(c.Request.Context(), &Auth{
			User:     user,
			RawToken: token,
			Claims:   claims,
		})
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("user_id", user.ID.String()))

		c.Next()
	}
}

// OptionalAuthenticationMiddleware runs the same pass as
// AuthenticationMiddleware but never blocks: any failure leaves the request
// anonymous and continues. Handlers distinguish the two cases via GetAuth.
func OptionalAuthenticationMiddleware(
	blacklistUseCase authUseCase.BlacklistUseCase,
	tokenService authService.TokenService,
	userStore authUseCase.UserStore,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		revoked, err := blacklistUseCase.IsRevoked(c.Request.Context(), token)
		if err != nil || revoked {
			c.Next()
			return
		}

		claims, err := tokenService.Verify(token)
		if err != nil {
			c.Next()
			return
		}

		user, err := userStore.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.Next()
			return
		}

		ctx := WithAuth(c.Request.Context(), &Auth{
			User:     user,
			RawToken: token,
			Claims:   claims,
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// TokenFreshnessMiddleware rejects authenticated requests whose token is
// close to expiry. Sensitive routes use it with a threshold matching the
// operation class, forcing the client to refresh before proceeding.
//
// Must run after AuthenticationMiddleware; an unauthenticated request is
// rejected outright.
func TokenFreshnessMiddleware(
	tokenService authService.TokenService,
	threshold time.Duration,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, ok := GetAuth(c.Request.Context())
		if !ok {
			httputil.Unauthorized(c, "access token required")
			c.Abort()
			return
		}

		if tokenService.IsNearExpiry(auth.RawToken, threshold) {
			logger.Debug("token freshness check failed",
				slog.String("user_id", auth.User.ID.String()),
				slog.Duration("threshold", threshold))
			httputil.Unauthorized(c, "token near expiry")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RefreshWindowMiddleware gates token refresh: a refresh is only permitted
// once the current token is within the window of its expiry. Earlier refresh
// attempts are rejected so tokens cannot be rolled forward indefinitely from
// a single issuance.
//
// Must run after AuthenticationMiddleware.
func RefreshWindowMiddleware(
	tokenService authService.TokenService,
	window time.Duration,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, ok := GetAuth(c.Request.Context())
		if !ok {
			httputil.Unauthorized(c, "access token required")
			c.Abort()
			return
		}

		if remaining := tokenService.RemainingValidity(auth.RawToken); remaining > window {
			logger.Debug("refresh rejected: token not yet in refresh window",
				slog.String("user_id", auth.User.ID.String()),
				slog.Duration("remaining", remaining),
				slog.Duration("window", window))
			httputil.BadRequest(c, "token not yet eligible for refresh")
			c.Abort()
			return
		}

		c.Next()
	}
}

// verificationFailureMessage maps a Verify error to its response message.
func verificationFailureMessage(err error) string {
	switch {
	case apperrors.Is(err, authDomain.ErrTokenExpired):
		return "token expired"
	case apperrors.Is(err, authDomain.ErrTokenNotYetValid):
		return "token not yet valid"
	default:
		return "token invalid"
	}
}
