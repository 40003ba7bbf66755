// Package main is the entry point for the stagehand staging tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"github.com/stagehand-dev/stagehand/cmd/stagehand/commands"
	"github.com/stagehand-dev/stagehand/internal/app"
	"github.com/stagehand-dev/stagehand/internal/core/domain"
	_ "github.com/stagehand-dev/stagehand/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
	opts ...func(*app.App),
) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := provider(ctx)
	if err != nil {
		// No logger yet when initialization fails.
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}

	for _, opt := range opts {
		opt(components.App)
	}

	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrStagingFailed) {
			// The renderer already showed the failing step. A failed
			// subcommand decides the process exit status.
			var cmdErr *domain.CommandError
			if errors.As(err, &cmdErr) {
				if cmdErr.LogPath != "" {
					_, _ = fmt.Fprintf(stderr, "Full output captured at %s\n", cmdErr.LogPath)
				}
				if cmdErr.ExitCode > 0 {
					return cmdErr.ExitCode
				}
			}
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
