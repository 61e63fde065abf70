package fs

import (
	"path/filepath"
	"sort"

	"go.trai.ch/fileflow/internal/core/domain"
	"go.trai.ch/fileflow/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements the InputResolver interface using filepath.Glob.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveInputs resolves the given input patterns to a list of concrete file paths.
// A pattern that matches nothing is reported as domain.ErrInputNotFound.
func (r *Resolver) ResolveInputs(patterns []string, root string) ([]string, error) {
	uniquePaths := make(map[string]bool)

	for _, pattern := range patterns {
		path := pattern
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}

		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "path", path)
		}

		if len(matches) == 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrInputNotFound, "no files match input"), "path", path)
		}

		for _, match := range matches {
			uniquePaths[match] = true
		}
	}

	result := make([]string, 0, len(uniquePaths))
	for path := range uniquePaths {
		result = append(result, path)
	}
	sort.Strings(result)

	return result, nil
}
