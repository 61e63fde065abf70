package ports

import "go.trai.ch/fileflow/internal/core/domain"

// ConfigLoader defines the interface for loading the pipeline definition.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load searches dir for a pipeline file. When none exists it returns a pipeline holding the
	// default configuration, found=false and a nil error, leaving the caller to decide whether
	// defaults are acceptable.
	Load(dir string) (pipeline *domain.Pipeline, found bool, err error)

	// LoadFile loads the pipeline file at path. A missing file is reported as domain.ErrConfigNotFound.
	LoadFile(path string) (*domain.Pipeline, error)
}
