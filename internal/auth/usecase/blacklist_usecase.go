// Package usecase implements business logic orchestration for token revocation.
package usecase

import (
	"context"
	"log/slog"

	authDomain "github.com/allisson/auth-api/internal/auth/domain"
	authService "github.com/allisson/auth-api/internal/auth/service"
	"github.com/allisson/auth-api/internal/config"
	apperrors "github.com/allisson/auth-api/internal/errors"
)

// blacklistUseCase implements BlacklistUseCase on top of a TTL-based store.
type blacklistUseCase struct {
	config        *config.Config
	blacklistRepo BlacklistRepository
	tokenService  authService.TokenService
	logger        *slog.Logger
}

// Revoke invalidates a token by writing a blacklist entry with a TTL equal
// to the token's remaining validity.
//
// This method:
// 1. Decodes the token to confirm it is structurally a token (signature not checked)
// 2. Computes the remaining validity
// 3. Skips the store write entirely when the token is already expired
// 4. Writes the entry, surfacing any store failure to the caller
//
// An expired token needs no blacklist entry: verification already rejects it,
// and writing one would only grow the store with dead weight.
func (b *blacklistUseCase) Revoke(ctx context.Context, token string) error {
	if _, err := b.tokenService.Decode(token); err != nil {
		return err
	}

	remaining := b.tokenService.RemainingValidity(token)
	if remaining <= 0 {
		b.logger.Info("skipping revocation of expired token")
		return nil
	}

	if err := b.blacklistRepo.Add(ctx, token, remaining); err != nil {
		return apperrors.Wrap(authDomain.ErrStoreUnavailable, err.Error())
	}

	b.logger.Info("token revoked", slog.Duration("ttl", remaining))
	return nil
}

// IsRevoked reports whether a token has been revoked.
//
// Store failures follow the configured policy: with fail-open (the default)
// the token is treated as not revoked and a warning is logged, with
// fail-closed the error is surfaced as ErrStoreUnavailable.
func (b *blacklistUseCase) IsRevoked(ctx context.Context, token string) (bool, error) {
	revoked, err := b.blacklistRepo.IsRevoked(ctx, token)
	if err != nil {
		if b.config.BlacklistFailClosed {
			return false, apperrors.Wrap(authDomain.ErrStoreUnavailable, err.Error())
		}
		b.logger.Warn("blacklist check failed, treating token as not revoked", slog.Any("error", err))
		return false, nil
	}
	return revoked, nil
}

// Unrevoke removes a token from the blacklist.
func (b *blacklistUseCase) Unrevoke(ctx context.Context, token string) error {
	if err := b.blacklistRepo.Remove(ctx, token); err != nil {
		return apperrors.Wrap(authDomain.ErrStoreUnavailable, err.Error())
	}
	return nil
}

// ClearAll removes every blacklist entry. Refused in production: mass
// un-revocation restores access for every revoked token at once.
func (b *blacklistUseCase) ClearAll(ctx context.Context) (int, error) {
	if b.config.IsProduction() {
		return 0, apperrors.Wrap(apperrors.ErrForbidden, "clearing the blacklist is not allowed in production")
	}

	count, err := b.blacklistRepo.ClearAll(ctx)
	if err != nil {
		return 0, apperrors.Wrap(authDomain.ErrStoreUnavailable, err.Error())
	}

	b.logger.Info("blacklist cleared", slog.Int("entries_removed", count))
	return count, nil
}

// Stats returns aggregate information about the blacklist.
func (b *blacklistUseCase) Stats(ctx context.Context) (*authDomain.BlacklistStats, error) {
	stats, err := b.blacklistRepo.Stats(ctx)
	if err != nil {
		return nil, apperrors.Wrap(authDomain.ErrStoreUnavailable, err.Error())
	}
	return stats, nil
}

// NewBlacklistUseCase creates a new BlacklistUseCase with the provided dependencies.
func NewBlacklistUseCase(
	config *config.Config,
	blacklistRepo BlacklistRepository,
	tokenService authService.TokenService,
	logger *slog.Logger,
) BlacklistUseCase {
	return &blacklistUseCase{
		config:        config,
		blacklistRepo: blacklistRepo,
		tokenService:  tokenService,
		logger:        logger,
	}
}
