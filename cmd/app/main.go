// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/auth-api/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "auth-api",
		Usage:   "Bearer token service with server-side revocation",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "revoke-token",
				Usage: "Add a token to the revocation blacklist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "token",
						Aliases:  []string{"t"},
						Required: true,
						Usage:    "The bearer token to revoke",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunRevokeToken(ctx, cmd.String("token"))
				},
			},
			{
				Name:  "unrevoke-token",
				Usage: "Remove a token from the revocation blacklist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "token",
						Aliases:  []string{"t"},
						Required: true,
						Usage:    "The bearer token to restore",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunUnrevokeToken(ctx, cmd.String("token"))
				},
			},
			{
				Name:  "blacklist-stats",
				Usage: "Report the current size of the revocation blacklist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunBlacklistStats(ctx, cmd.String("format"))
				},
			},
			{
				Name:  "clear-blacklist",
				Usage: "Remove every entry from the revocation blacklist (refused in production)",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunClearBlacklist(ctx)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
