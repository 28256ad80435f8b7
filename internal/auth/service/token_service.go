package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authDomain "github.com/allisson/auth-api/internal/auth/domain"
	apperrors "github.com/allisson/auth-api/internal/errors"
	userDomain "github.com/allisson/auth-api/internal/user/domain"
)

// tokenService implements TokenService using HMAC-SHA256 signed JWTs.
type tokenService struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewTokenService creates a TokenService signing with the given secret and
// issuing tokens with the given lifetime.
func NewTokenService(secret string, expiration time.Duration) TokenService {
	return &tokenService{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// Issue creates a signed token carrying the user's identity claims.
func (t *tokenService) Issue(user *userDomain.User) (*authDomain.IssuedToken, error) {
	now := t.now().UTC()
	expiresAt := now.Add(t.expiration)

	claims := &authDomain.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    authDomain.TokenIssuer,
			Audience:  jwt.ClaimStrings{authDomain.TokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to sign token")
	}

	return &authDomain.IssuedToken{
		Token:     signed,
		Type:      authDomain.TokenType,
		IssuedAt:  now,
		ExpiresIn: t.expiration,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks signature, time window, issuer, and audience.
func (t *tokenService) Verify(tokenString string) (*authDomain.Claims, error) {
	claims := &authDomain.Claims{}

	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(authDomain.TokenIssuer),
		jwt.WithAudience(authDomain.TokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, mapJWTError(err)
	}

	return claims, nil
}

// Decode extracts claims without signature verification.
func (t *tokenService) Decode(tokenString string) (*authDomain.Claims, error) {
	claims := &authDomain.Claims{}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, authDomain.ErrTokenMalformed
	}

	return claims, nil
}

// RemainingValidity returns max(0, exp-now); zero on any decode failure.
func (t *tokenService) RemainingValidity(tokenString string) time.Duration {
	claims, err := t.Decode(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return 0
	}

	remaining := claims.ExpiresAt.Sub(t.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsNearExpiry reports whether remaining validity is at or below the threshold.
func (t *tokenService) IsNearExpiry(tokenString string, threshold time.Duration) bool {
	claims, err := t.Decode(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		// Fail safe: treat undecodable tokens as near expiry.
		return true
	}

	return claims.ExpiresAt.Sub(t.now()) <= threshold
}

// Refresh verifies the old token and re-issues from its subject claims only.
// Temporal, issuer, and audience claims are regenerated, never copied.
func (t *tokenService) Refresh(oldTokenString string) (*authDomain.IssuedToken, error) {
	claims, err := t.Verify(oldTokenString)
	if err != nil {
		return nil, err
	}

	return t.Issue(&userDomain.User{
		ID:    claims.UserID,
		Email: claims.Email,
		Name:  claims.Name,
	})
}

// mapJWTError converts jwt/v5 validation errors to the closed domain taxonomy.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return authDomain.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return authDomain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return authDomain.ErrTokenNotYetValid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
		return authDomain.ErrTokenClaimsMismatch
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return authDomain.ErrTokenSignatureInvalid
	default:
		return apperrors.Wrap(authDomain.ErrTokenSignatureInvalid, err.Error())
	}
}
