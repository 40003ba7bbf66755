// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/stagehand-dev/stagehand/internal/adapters/cache"
	_ "github.com/stagehand-dev/stagehand/internal/adapters/config"
	_ "github.com/stagehand-dev/stagehand/internal/adapters/distribution"
	_ "github.com/stagehand-dev/stagehand/internal/adapters/envdir"
	_ "github.com/stagehand-dev/stagehand/internal/adapters/logger"
	_ "github.com/stagehand-dev/stagehand/internal/adapters/project"
	_ "github.com/stagehand-dev/stagehand/internal/adapters/semver"
	_ "github.com/stagehand-dev/stagehand/internal/adapters/shell"
	// Register app nodes.
	_ "github.com/stagehand-dev/stagehand/internal/app"
)
