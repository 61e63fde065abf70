package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fileflow/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/fileflow/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/fileflow/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/fileflow/internal/adapters/runinfo"            //nolint:depguard // Wired in app layer
	"go.trai.ch/fileflow/internal/adapters/shell"              //nolint:depguard // Wired in app layer
	"go.trai.ch/fileflow/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/fileflow/internal/core/ports"
	"go.trai.ch/fileflow/internal/engine/registry"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			shell.NodeID,
			logger.NodeID,
			progrock.NodeID,
			fs.ResolverNodeID,
			runinfo.NodeID,
			registry.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := graft.Dep[ports.InputResolver](ctx)
	if err != nil {
		return nil, err
	}

	runInfo, err := graft.Dep[ports.RunInfo](ctx)
	if err != nil {
		return nil, err
	}

	reg, err := graft.Dep[*registry.Registry](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, executor, log, telemetry, resolver, runInfo, reg), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:       app,
		Logger:    log,
		Telemetry: telemetry,
	}, nil
}
