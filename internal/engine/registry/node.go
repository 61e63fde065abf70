package registry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fileflow/internal/adapters/artifact" //nolint:depguard // Wired in engine wiring
)

// NodeID is the unique identifier for the registry Graft node.
const NodeID graft.ID = "engine.registry"

func init() {
	graft.Register(graft.Node[*Registry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Registry, error) {
			cache, err := artifact.NewReadCache(artifact.DefaultReadCacheSize)
			if err != nil {
				return nil, err
			}
			return New(artifact.Builtins(cache)), nil
		},
	})
}
