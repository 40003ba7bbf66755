package envdir

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/stagehand-dev/stagehand/internal/adapters/logger"
	"github.com/stagehand-dev/stagehand/internal/core/ports"
)

// NodeID is the unique identifier for the environment loader Graft node.
const NodeID graft.ID = "adapter.env_loader"

func init() {
	graft.Register(graft.Node[ports.EnvLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.EnvLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})
}
