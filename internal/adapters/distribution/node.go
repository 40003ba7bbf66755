package distribution

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/stagehand-dev/stagehand/internal/core/ports"
)

// NodeID is the unique identifier for the runtime installer Graft node.
const NodeID graft.ID = "adapter.runtime_installer"

func init() {
	graft.Register(graft.Node[ports.RuntimeInstaller]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.RuntimeInstaller, error) {
			return NewInstaller(), nil
		},
	})
}
