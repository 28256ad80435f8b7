// Package usecase defines business logic interfaces for token revocation operations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/auth-api/internal/auth/domain"
	userDomain "github.com/allisson/auth-api/internal/user/domain"
)

// BlacklistRepository defines persistence operations for revoked tokens.
// Entries carry a TTL matching the token's remaining validity so the store
// expires them on its own once the token would be rejected anyway.
type BlacklistRepository interface {
	// Add stores a revocation entry that expires after ttl.
	// Implementations must not write entries with a non-positive ttl.
	Add(ctx context.Context, token string, ttl time.Duration) error

	// IsRevoked reports whether a revocation entry exists for the token.
	IsRevoked(ctx context.Context, token string) (bool, error)

	// Remove deletes the revocation entry for the token, if any.
	Remove(ctx context.Context, token string) error

	// ClearAll deletes every revocation entry and returns the number removed.
	ClearAll(ctx context.Context) (int, error)

	// Stats returns aggregate information about the revocation entries.
	Stats(ctx context.Context) (*authDomain.BlacklistStats, error)
}

// UserStore resolves token subjects to user records.
type UserStore interface {
	// FindByID retrieves a user by ID. Returns ErrNotFound if not found.
	FindByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)
}

// BlacklistUseCase defines business logic operations for server-side token
// revocation on top of signed bearer tokens.
type BlacklistUseCase interface {
	// Revoke invalidates a token before its natural expiry. The token only
	// needs to be well-formed, not currently valid: revoking an already
	// expired token is a no-op that still succeeds.
	//
	// A store write failure is returned to the caller so revocation is never
	// silently lost.
	Revoke(ctx context.Context, token string) error

	// IsRevoked reports whether a token has been revoked.
	//
	// When the store is unreachable the behavior depends on the configured
	// policy: fail-open treats the token as not revoked (signature
	// verification still stands between the caller and access), fail-closed
	// returns ErrStoreUnavailable.
	IsRevoked(ctx context.Context, token string) (bool, error)

	// Unrevoke removes a token from the blacklist, restoring its validity
	// for the rest of its lifetime.
	Unrevoke(ctx context.Context, token string) error

	// ClearAll removes every revocation entry and returns the number removed.
	// Refused in production environments.
	ClearAll(ctx context.Context) (int, error)

	// Stats returns aggregate information about the blacklist.
	Stats(ctx context.Context) (*authDomain.BlacklistStats, error)
}
