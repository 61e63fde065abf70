// Package registry resolves in-memory datatypes to the artifact types that persist them.
package registry

import (
	"reflect"
	"slices"
	"sync"

	"go.trai.ch/fileflow/internal/core/domain"
	"go.trai.ch/zerr"
)

// Registry maps datatypes to artifact types.
// Explicit registrations take precedence over a datatype's own domain.Saveable description.
// Entries are keyed by the datatype value, so a registration for the name "json" does not
// shadow a self-describing datatype that happens to share that name.
type Registry struct {
	mu    sync.RWMutex
	types map[any]domain.ArtifactType
}

// New creates a registry seeded with the given mappings.
func New(seed map[domain.DatatypeName]domain.ArtifactType) *Registry {
	r := &Registry{types: make(map[any]domain.ArtifactType, len(seed))}
	for datatype, artifactType := range seed {
		r.types[key(datatype)] = artifactType
	}
	return r
}

// key returns the map key for datatype. Datatypes whose dynamic type cannot be compared
// fall back to their name.
func key(datatype domain.Datatype) any {
	if reflect.TypeOf(datatype).Comparable() {
		return datatype
	}
	return domain.DatatypeName(datatype.String())
}

// Register maps datatype to artifactType. A later registration for the same datatype replaces the earlier one.
func (r *Registry) Register(datatype domain.Datatype, artifactType domain.ArtifactType) {
	if datatype == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[key(datatype)] = artifactType
}

// Resolve returns the artifact type for datatype: the explicit registration if one exists,
// otherwise the type the datatype describes itself.
func (r *Registry) Resolve(datatype domain.Datatype) (domain.ArtifactType, error) {
	if datatype == nil {
		return nil, zerr.Wrap(domain.ErrUnresolvedArtifactType, "datatype is nil")
	}

	r.mu.RLock()
	artifactType, ok := r.types[key(datatype)]
	r.mu.RUnlock()
	if ok && artifactType != nil {
		return artifactType, nil
	}

	if saveable, ok := datatype.(domain.Saveable); ok {
		if artifactType := saveable.ArtifactType(); artifactType != nil {
			return artifactType, nil
		}
	}

	return nil, zerr.With(zerr.Wrap(domain.ErrUnresolvedArtifactType, "no artifact type registered"), "datatype", datatype.String())
}

// Datatypes returns the names of all explicitly registered datatypes, sorted.
func (r *Registry) Datatypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for datatype := range r.types {
		names = append(names, datatype.(domain.Datatype).String())
	}
	slices.Sort(names)
	return slices.Compact(names)
}
