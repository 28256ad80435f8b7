package domain

import (
	"github.com/allisson/auth-api/internal/errors"
)

// Token verification and revocation errors. Each kind wraps a shared sentinel
// so handlers can map it to a status class while callers match the exact kind.
var (
	// ErrTokenMalformed indicates the token string could not be decoded at all.
	ErrTokenMalformed = errors.Wrap(errors.ErrInvalidInput, "token malformed")

	// ErrTokenExpired indicates the token's expiry time has passed.
	ErrTokenExpired = errors.Wrap(errors.ErrUnauthorized, "token expired")

	// ErrTokenSignatureInvalid indicates the token signature did not verify.
	ErrTokenSignatureInvalid = errors.Wrap(errors.ErrUnauthorized, "token signature invalid")

	// ErrTokenNotYetValid indicates the token was presented before its validity window.
	ErrTokenNotYetValid = errors.Wrap(errors.ErrUnauthorized, "token not yet valid")

	// ErrTokenClaimsMismatch indicates the issuer or audience claim did not match
	// this process's fixed identifiers.
	ErrTokenClaimsMismatch = errors.Wrap(errors.ErrUnauthorized, "token issuer or audience mismatch")

	// ErrTokenRevoked indicates the token is present in the revocation store.
	ErrTokenRevoked = errors.Wrap(errors.ErrUnauthorized, "token revoked")

	// ErrSubjectNotFound indicates the subject referenced by the claims no longer exists.
	ErrSubjectNotFound = errors.Wrap(errors.ErrUnauthorized, "subject not found")

	// ErrStoreUnavailable indicates the revocation store could not be reached in time.
	ErrStoreUnavailable = errors.Wrap(errors.ErrUnavailable, "revocation store unavailable")
)
