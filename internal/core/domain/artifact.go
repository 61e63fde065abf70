// Package domain contains the core domain models of the pipeline engine: artifacts,
// datatypes, output shapes and configuration.
package domain

// Artifact is a typed handle to a single persisted value at a filesystem path.
// Typed read and write access is provided by the concrete implementation.
type Artifact interface {
	// Path returns the normalized location of the artifact, including its extension.
	Path() string
	// Type returns the artifact type that created this handle.
	Type() ArtifactType
	// Exists reports whether the backing file is present. It has no side effects.
	Exists() (bool, error)
	// Delete removes the backing file. Deleting a missing artifact is a no-op.
	Delete() error
}

// ArtifactType describes how values of one datatype are persisted.
type ArtifactType interface {
	// Name identifies the artifact type in logs and errors.
	Name() string
	// Extension is the mandated file extension, including the leading dot.
	Extension() string
	// Open returns a handle for path. It creates missing parent directories and
	// appends Extension to path unless it already ends with it.
	Open(path string) (Artifact, error)
}

// Datatype identifies an in-memory value type that a task produces or consumes.
type Datatype interface {
	String() string
}

// Saveable is implemented by datatypes that know which artifact type persists them.
// Explicit registrations in a type registry take precedence over it.
type Saveable interface {
	Datatype
	ArtifactType() ArtifactType
}

// DatatypeName is a Datatype without self-description; it must be registered explicitly.
type DatatypeName string

// String returns the datatype name.
func (d DatatypeName) String() string {
	return string(d)
}
