// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/fileflow/internal/adapters/config"
	_ "go.trai.ch/fileflow/internal/adapters/fs"
	_ "go.trai.ch/fileflow/internal/adapters/logger"
	_ "go.trai.ch/fileflow/internal/adapters/runinfo"
	_ "go.trai.ch/fileflow/internal/adapters/shell"
	_ "go.trai.ch/fileflow/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/fileflow/internal/app"
	_ "go.trai.ch/fileflow/internal/engine/registry"
)
