// Package repository provides user lookup backing the subject resolution
// step of the authentication pass.
package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/allisson/auth-api/internal/errors"
	userDomain "github.com/allisson/auth-api/internal/user/domain"
)

// InMemoryUserRepository is a concurrency-safe in-process user store.
// User persistence lives outside this service; embedding applications load
// their subjects here (or bring their own store implementing the same
// interface) so token subjects can be resolved during authentication.
type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*userDomain.User
}

// NewInMemoryUserRepository creates an empty InMemoryUserRepository.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[uuid.UUID]*userDomain.User),
	}
}

// Add stores or replaces a user.
func (r *InMemoryUserRepository) Add(user *userDomain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

// Remove deletes a user. Removing an unknown ID is a no-op.
func (r *InMemoryUserRepository) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

// FindByID retrieves a user by ID. Returns ErrNotFound if not found.
func (r *InMemoryUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "user not found")
	}
	return user, nil
}
