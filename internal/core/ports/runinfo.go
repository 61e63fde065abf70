package ports

import (
	"context"

	"go.trai.ch/fileflow/internal/core/domain"
)

// RunInfo reports information about the environment a pipeline runs in.
//
//go:generate go run go.uber.org/mock/mockgen -source=runinfo.go -destination=mocks/mock_runinfo.go -package=mocks
type RunInfo interface {
	// Report logs run information for the pipeline at the level its configuration names.
	Report(ctx context.Context, pipeline *domain.Pipeline)
}
