package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/auth-api/internal/auth/domain"
	"github.com/allisson/auth-api/internal/metrics"
)

// blacklistUseCaseWithMetrics decorates BlacklistUseCase with metrics instrumentation.
type blacklistUseCaseWithMetrics struct {
	next    BlacklistUseCase
	metrics metrics.BusinessMetrics
}

// NewBlacklistUseCaseWithMetrics wraps a BlacklistUseCase with metrics recording.
func NewBlacklistUseCaseWithMetrics(useCase BlacklistUseCase, m metrics.BusinessMetrics) BlacklistUseCase {
	return &blacklistUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Revoke records metrics for token revocation operations.
func (b *blacklistUseCaseWithMetrics) Revoke(ctx context.Context, token string) error {
	start := time.Now()
	err := b.next.Revoke(ctx, token)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "auth", "revoke", status)
	b.metrics.RecordDuration(ctx, "auth", "revoke", time.Since(start), status)

	return err
}

// IsRevoked records metrics for revocation check operations.
func (b *blacklistUseCaseWithMetrics) IsRevoked(ctx context.Context, token string) (bool, error) {
	start := time.Now()
	revoked, err := b.next.IsRevoked(ctx, token)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "auth", "is_revoked", status)
	b.metrics.RecordDuration(ctx, "auth", "is_revoked", time.Since(start), status)

	return revoked, err
}

// Unrevoke records metrics for un-revocation operations.
func (b *blacklistUseCaseWithMetrics) Unrevoke(ctx context.Context, token string) error {
	start := time.Now()
	err := b.next.Unrevoke(ctx, token)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "auth", "unrevoke", status)
	b.metrics.RecordDuration(ctx, "auth", "unrevoke", time.Since(start), status)

	return err
}

// ClearAll records metrics for blacklist clearing operations.
func (b *blacklistUseCaseWithMetrics) ClearAll(ctx context.Context) (int, error) {
	start := time.Now()
	count, err := b.next.ClearAll(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "auth", "clear_all", status)
	b.metrics.RecordDuration(ctx, "auth", "clear_all", time.Since(start), status)

	return count, err
}

// Stats records metrics for stats operations and feeds the blacklist size gauge.
func (b *blacklistUseCaseWithMetrics) Stats(ctx context.Context) (*authDomain.BlacklistStats, error) {
	start := time.Now()
	stats, err := b.next.Stats(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "auth", "stats", status)
	b.metrics.RecordDuration(ctx, "auth", "stats", time.Since(start), status)

	if err == nil {
		b.metrics.SetBlacklistEntries(ctx, int64(stats.TotalEntries))
	}

	return stats, err
}
