package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fileflow/internal/core/ports"
)

const (
	// WalkerNodeID is the unique identifier for the source walker Graft node.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// ResolverNodeID is the unique identifier for the input resolver Graft node.
	ResolverNodeID graft.ID = "adapter.fs.resolver"
)

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[ports.InputResolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.InputResolver, error) {
			return NewResolver(), nil
		},
	})
}
