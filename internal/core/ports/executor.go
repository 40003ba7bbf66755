// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"github.com/stagehand-dev/stagehand/internal/core/domain"
)

// Executor defines the interface for running external commands.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command and waits for it to complete.
	//
	// The env parameter contains environment variables in "KEY=VALUE"
	// format and forms the base environment of the child process.
	// Entries from cmd.Env are layered on top of it. The command's
	// program is looked up on the PATH contained in that merged
	// environment, not the host PATH.
	//
	// Combined output is streamed to out as it is produced. A non-zero
	// exit status is reported as a *domain.CommandError.
	Execute(ctx context.Context, cmd *domain.Command, env []string, out io.Writer) error
}
