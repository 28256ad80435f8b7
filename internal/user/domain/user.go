// Package domain defines the user entity referenced by token claims.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the authenticated principal (subject) referenced by a token's claims.
// Persistence and password handling belong to the external user store.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	CreatedAt time.Time
}
