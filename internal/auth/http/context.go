// Package http provides HTTP middleware for bearer-token authentication,
// token freshness enforcement, and route-class rate limiting.
package http

import (
	"context"

	authDomain "github.com/allisson/auth-api/internal/auth/domain"
	userDomain "github.com/allisson/auth-api/internal/user/domain"
)

// Auth carries the result of a successful authentication pass.
type Auth struct {
	// User is the resolved token subject.
	User *userDomain.User
	// RawToken is the bearer token exactly as presented, used for revocation.
	RawToken string
	// Claims are the verified token claims.
	Claims *authDomain.Claims
}

// authKey is a context key type for storing authentication results.
type authKey struct{}

// WithAuth stores an authentication result in the context.
// Called by the authentication middleware after the full validation pass.
func WithAuth(ctx context.Context, auth *Auth) context.Context {
	return context.WithValue(ctx, authKey{}, auth)
}

// GetAuth retrieves the authentication result from the context.
// Returns (auth, true) when present, or (nil, false) when the request was not
// authenticated (e.g. under the optional middleware).
func GetAuth(ctx context.Context) (*Auth, bool) {
	auth, ok := ctx.Value(authKey{}).(*Auth)
	return auth, ok
}
