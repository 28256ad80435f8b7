package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/allisson/auth-api/internal/app"
	authUseCase "github.com/allisson/auth-api/internal/auth/usecase"
	"github.com/allisson/auth-api/internal/config"
)

// loadBlacklistUseCase builds a container and resolves the blacklist use case.
// The caller owns the container and must close it via closeContainer.
func loadBlacklistUseCase(ctx context.Context) (*app.Container, authUseCase.BlacklistUseCase, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	container := app.NewContainer(cfg)

	blacklistUseCase, err := container.BlacklistUseCase(ctx)
	if err != nil {
		closeContainer(container, container.Logger())
		return nil, nil, fmt.Errorf("failed to initialize blacklist use case: %w", err)
	}

	return container, blacklistUseCase, nil
}

// RunRevokeToken adds a token to the revocation blacklist.
func RunRevokeToken(ctx context.Context, token string) error {
	container, blacklistUseCase, err := loadBlacklistUseCase(ctx)
	if err != nil {
		return err
	}
	defer closeContainer(container, container.Logger())

	return revokeToken(ctx, blacklistUseCase, os.Stdout, token)
}

// RunUnrevokeToken removes a token from the revocation blacklist.
func RunUnrevokeToken(ctx context.Context, token string) error {
	container, blacklistUseCase, err := loadBlacklistUseCase(ctx)
	if err != nil {
		return err
	}
	defer closeContainer(container, container.Logger())

	return unrevokeToken(ctx, blacklistUseCase, os.Stdout, token)
}

// RunBlacklistStats reports the current size of the revocation blacklist.
func RunBlacklistStats(ctx context.Context, format string) error {
	container, blacklistUseCase, err := loadBlacklistUseCase(ctx)
	if err != nil {
		return err
	}
	defer closeContainer(container, container.Logger())

	return blacklistStats(ctx, blacklistUseCase, os.Stdout, format)
}

// RunClearBlacklist removes every entry from the revocation blacklist.
// Refused in production environments.
func RunClearBlacklist(ctx context.Context) error {
	container, blacklistUseCase, err := loadBlacklistUseCase(ctx)
	if err != nil {
		return err
	}
	defer closeContainer(container, container.Logger())

	return clearBlacklist(ctx, blacklistUseCase, container.Logger(), os.Stdout)
}

// revokeToken invalidates a token before its natural expiry. The blacklist
// entry lives for the token's remaining validity; revoking an already expired
// token is a no-op that still succeeds.
func revokeToken(ctx context.Context, uc authUseCase.BlacklistUseCase, out io.Writer, token string) error {
	if token == "" {
		return fmt.Errorf("token must not be empty")
	}

	if err := uc.Revoke(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	fmt.Fprintln(out, "Token revoked")
	return nil
}

// unrevokeToken restores a token's validity for the rest of its lifetime.
func unrevokeToken(ctx context.Context, uc authUseCase.BlacklistUseCase, out io.Writer, token string) error {
	if token == "" {
		return fmt.Errorf("token must not be empty")
	}

	if err := uc.Unrevoke(ctx, token); err != nil {
		return fmt.Errorf("failed to unrevoke token: %w", err)
	}

	fmt.Fprintln(out, "Token removed from blacklist")
	return nil
}

// blacklistStats outputs blacklist aggregate information in text or JSON format.
func blacklistStats(ctx context.Context, uc authUseCase.BlacklistUseCase, out io.Writer, format string) error {
	stats, err := uc.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get blacklist stats: %w", err)
	}

	if format == "json" {
		result := map[string]any{
			"total_entries": stats.TotalEntries,
			"key_namespace": stats.KeyNamespace,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(jsonBytes))
		return nil
	}

	fmt.Fprintf(out, "Blacklist entries: %d (namespace %q)\n", stats.TotalEntries, stats.KeyNamespace)
	return nil
}

// clearBlacklist removes every revocation entry and reports the count.
func clearBlacklist(ctx context.Context, uc authUseCase.BlacklistUseCase, logger *slog.Logger, out io.Writer) error {
	count, err := uc.ClearAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear blacklist: %w", err)
	}

	logger.Info("blacklist cleared", slog.Int("entries_removed", count))
	fmt.Fprintf(out, "Removed %d blacklist entrie(s)\n", count)
	return nil
}
