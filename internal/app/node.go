package app

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/stagehand-dev/stagehand/internal/adapters/cache"
	"github.com/stagehand-dev/stagehand/internal/adapters/config"
	"github.com/stagehand-dev/stagehand/internal/adapters/distribution"
	"github.com/stagehand-dev/stagehand/internal/adapters/envdir"
	"github.com/stagehand-dev/stagehand/internal/adapters/logger"
	"github.com/stagehand-dev/stagehand/internal/adapters/project"
	"github.com/stagehand-dev/stagehand/internal/adapters/semver"
	"github.com/stagehand-dev/stagehand/internal/adapters/shell"
	"github.com/stagehand-dev/stagehand/internal/core/ports"
)

// Components contains the initialized application components. It
// provides controlled access to the pieces needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

const (
	// NodeID is the unique identifier for the application Graft node.
	NodeID graft.ID = "app.main"

	// ComponentsNodeID is the unique identifier for the CLI component
	// bundle Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			config.NodeID,
			project.NodeID,
			semver.NodeID,
			distribution.NodeID,
			cache.NodeID,
			envdir.NodeID,
			shell.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			settingsLoader, err := graft.Dep[ports.SettingsLoader](ctx)
			if err != nil {
				return nil, err
			}
			projectReader, err := graft.Dep[ports.ProjectReader](ctx)
			if err != nil {
				return nil, err
			}
			resolver, err := graft.Dep[ports.VersionResolver](ctx)
			if err != nil {
				return nil, err
			}
			installer, err := graft.Dep[ports.RuntimeInstaller](ctx)
			if err != nil {
				return nil, err
			}
			cacheStore, err := graft.Dep[ports.CacheStore](ctx)
			if err != nil {
				return nil, err
			}
			envLoader, err := graft.Dep[ports.EnvLoader](ctx)
			if err != nil {
				return nil, err
			}
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return New(log, settingsLoader, projectReader, resolver, installer, cacheStore, envLoader, executor), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			application, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: application, Logger: log}, nil
		},
	})
}
