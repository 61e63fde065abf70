package runinfo

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fileflow/internal/adapters/fs"
	"go.trai.ch/fileflow/internal/adapters/logger"
	"go.trai.ch/fileflow/internal/core/ports"
)

// NodeID is the unique identifier for the run info Graft node.
const NodeID graft.ID = "adapter.runinfo"

func init() {
	graft.Register(graft.Node[ports.RunInfo]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, fs.WalkerNodeID},
		Run: func(ctx context.Context) (ports.RunInfo, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewReporter(log, walker), nil
		},
	})
}
