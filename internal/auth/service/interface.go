// Package service provides the token service for issuing, verifying, and
// refreshing signed bearer tokens.
//
// Tokens are self-contained: signature plus embedded time window make them
// verifiable without any store lookup. The service holds the signing secret
// and has no mutable state after construction, so it is safe for concurrent use.
package service

import (
	"time"

	authDomain "github.com/allisson/auth-api/internal/auth/domain"
	userDomain "github.com/allisson/auth-api/internal/user/domain"
)

// TokenService defines operations over signed bearer tokens.
type TokenService interface {
	// Issue creates a signed token for the user with the configured lifetime.
	// Claims carry the user's id, email, and name plus the fixed process
	// issuer and audience identifiers.
	Issue(user *userDomain.User) (*authDomain.IssuedToken, error)

	// Verify checks signature, time window, issuer, and audience, returning
	// the claims on success. Failure kinds: authDomain.ErrTokenExpired,
	// ErrTokenSignatureInvalid, ErrTokenNotYetValid, ErrTokenClaimsMismatch,
	// ErrTokenMalformed.
	Verify(tokenString string) (*authDomain.Claims, error)

	// Decode extracts claims without verifying the signature. Only
	// authDomain.ErrTokenMalformed can be returned. Use it for bookkeeping on
	// tokens the caller already trusts, e.g. computing remaining validity
	// during revocation.
	Decode(tokenString string) (*authDomain.Claims, error)

	// RemainingValidity returns max(0, exp-now). It never fails; any decode
	// problem yields zero.
	RemainingValidity(tokenString string) time.Duration

	// IsNearExpiry reports whether the token's remaining validity is at or
	// below the threshold. Fails safe: true on any internal error.
	IsNearExpiry(tokenString string, threshold time.Duration) bool

	// Refresh verifies the old token (full Verify, not merely Decode), copies
	// its subject claims, and issues a fresh token with new temporal claims.
	// Fails with the same kinds as Verify.
	Refresh(oldTokenString string) (*authDomain.IssuedToken, error)
}
