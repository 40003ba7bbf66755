package project

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/stagehand-dev/stagehand/internal/core/ports"
)

// NodeID is the unique identifier for the project reader Graft node.
const NodeID graft.ID = "adapter.project_reader"

func init() {
	graft.Register(graft.Node[ports.ProjectReader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ProjectReader, error) {
			return NewReader(), nil
		},
	})
}
