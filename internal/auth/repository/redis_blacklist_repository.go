// Package repository implements the revocation store over Redis.
//
// Entry expiry is delegated entirely to Redis per-key TTL; no separate garbage
// collection runs here. Atomicity of single-key operations is whatever Redis
// itself provides.
package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	authDomain "github.com/allisson/auth-api/internal/auth/domain"
	apperrors "github.com/allisson/auth-api/internal/errors"
)

// RedisClient is the subset of the go-redis API the repository needs.
// *redis.Client satisfies it.
type RedisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

// RedisBlacklistRepository records revoked tokens as TTL-expiring Redis keys:
// "blacklist:token:<token>" -> "revoked".
type RedisBlacklistRepository struct {
	client    RedisClient
	opTimeout time.Duration
}

// NewRedisBlacklistRepository creates a repository whose every store call is
// bounded by opTimeout.
func NewRedisBlacklistRepository(client RedisClient, opTimeout time.Duration) *RedisBlacklistRepository {
	return &RedisBlacklistRepository{
		client:    client,
		opTimeout: opTimeout,
	}
}

func (r *RedisBlacklistRepository) key(token string) string {
	return authDomain.BlacklistKeyPrefix + token
}

func (r *RedisBlacklistRepository) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.opTimeout)
}

// Add records the token as revoked for ttl. A non-positive ttl performs no
// store write: an entry must never outlive the token's natural validity.
func (r *RedisBlacklistRepository) Add(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	if err := r.client.Set(ctx, r.key(token), authDomain.BlacklistEntryValue, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "failed to add token to blacklist")
	}
	return nil
}

// IsRevoked reports whether the token has a live blacklist entry.
func (r *RedisBlacklistRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	n, err := r.client.Exists(ctx, r.key(token)).Result()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check token blacklist")
	}
	return n > 0, nil
}

// Remove deletes the token's blacklist entry (manual reinstatement).
func (r *RedisBlacklistRepository) Remove(ctx context.Context, token string) error {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		return apperrors.Wrap(err, "failed to remove token from blacklist")
	}
	return nil
}

// ClearAll deletes every blacklist entry and returns the count removed.
// Entries are enumerated with SCAN to avoid blocking the server.
func (r *RedisBlacklistRepository) ClearAll(ctx context.Context) (int, error) {
	keys, err := r.scanKeys(ctx)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	opCtx, cancel := r.opContext(ctx)
	defer cancel()

	if err := r.client.Del(opCtx, keys...).Err(); err != nil {
		return 0, apperrors.Wrap(err, "failed to clear blacklist")
	}
	return len(keys), nil
}

// Stats returns the number of live entries and the key namespace.
func (r *RedisBlacklistRepository) Stats(ctx context.Context) (*authDomain.BlacklistStats, error) {
	keys, err := r.scanKeys(ctx)
	if err != nil {
		return nil, err
	}

	return &authDomain.BlacklistStats{
		TotalEntries: len(keys),
		KeyNamespace: authDomain.BlacklistKeyPrefix,
	}, nil
}

func (r *RedisBlacklistRepository) scanKeys(ctx context.Context) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		opCtx, cancel := r.opContext(ctx)
		batch, next, err := r.client.Scan(opCtx, cursor, authDomain.BlacklistKeyPrefix+"*", 100).Result()
		cancel()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan blacklist keys")
		}

		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}
