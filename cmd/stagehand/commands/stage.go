package commands

import (
	"github.com/spf13/cobra"
	"github.com/stagehand-dev/stagehand/internal/app"
	"github.com/stagehand-dev/stagehand/internal/core/domain"
)

func (c *CLI) newStageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage BUILD_DIR CACHE_DIR [ENV_DIR]",
		Short: "Install the runtime and project dependencies into a build directory",
		Long: `Stage resolves the Node.js version requested by the application's
package.json, installs it under BUILD_DIR/vendor/node, restores cached
dependencies from CACHE_DIR, runs the package installs, and refreshes the
cache for the next run. ENV_DIR may hold one file per environment variable
to expose to the install commands.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputMode, _ := cmd.Flags().GetString("output-mode")
			ci, _ := cmd.Flags().GetBool("ci")

			// --ci is shorthand for --output-mode=linear
			if ci {
				outputMode = "linear"
			}

			dirs := domain.StageDirs{
				BuildDir: args[0],
				CacheDir: args[1],
			}
			if len(args) == 3 {
				dirs.EnvDir = args[2]
			}

			return c.app.Stage(cmd.Context(), dirs, app.StageOptions{
				OutputMode: outputMode,
			})
		},
	}
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	return cmd
}
