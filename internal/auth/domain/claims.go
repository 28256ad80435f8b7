// Package domain defines the token claim schema, issued-token metadata, and
// blacklist entities for the authentication module.
package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the structured data carried inside a token. Immutable once issued.
// The logical payload is {userId, email, name, iat, exp, iss, aud}.
type Claims struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	jwt.RegisteredClaims
}

// IssuedToken is the result of issuing (or refreshing) a token: the signed
// token string plus presentation metadata.
type IssuedToken struct {
	Token     string
	Type      string
	IssuedAt  time.Time
	ExpiresIn time.Duration
	ExpiresAt time.Time
}

// BlacklistStats describes the revocation store contents for observability.
type BlacklistStats struct {
	TotalEntries int
	KeyNamespace string
}
