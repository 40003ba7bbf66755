package commands

import (
	"github.com/spf13/cobra"
	"github.com/stagehand-dev/stagehand/internal/core/domain"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean BUILD_DIR CACHE_DIR",
		Short: "Remove the staged runtime, staging state, and cached dependencies",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Clean(cmd.Context(), domain.StageDirs{
				BuildDir: args[0],
				CacheDir: args[1],
			})
		},
	}
}
