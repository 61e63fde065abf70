// Package artifact implements file-backed artifacts and the built-in artifact types.
package artifact

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/fileflow/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

var (
	_ domain.ArtifactType = (*Kind[int])(nil)
	_ domain.Saveable     = (*Kind[int])(nil)
	_ domain.Artifact     = (*File[int])(nil)
)

// Codec converts values of type T to and from their on-disk representation.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// Kind is an artifact type whose files hold a single value of type T.
type Kind[T any] struct {
	name  string
	ext   string
	codec Codec[T]
	cache *ReadCache
}

// NewKind creates an artifact type named name that stores values with codec under extension ext.
// ext should include its leading dot; an empty ext leaves paths untouched.
func NewKind[T any](name, ext string, codec Codec[T]) *Kind[T] {
	return &Kind[T]{name: name, ext: ext, codec: codec}
}

// WithCache returns a copy of the kind whose files memoize their contents in c.
func (k *Kind[T]) WithCache(c *ReadCache) *Kind[T] {
	clone := *k
	clone.cache = c
	return &clone
}

// Name returns the artifact type name.
func (k *Kind[T]) Name() string {
	return k.name
}

// Extension returns the mandated file extension.
func (k *Kind[T]) Extension() string {
	return k.ext
}

// String returns the artifact type name, so a Kind can be declared as its own datatype.
func (k *Kind[T]) String() string {
	return k.name
}

// ArtifactType implements domain.Saveable.
func (k *Kind[T]) ArtifactType() domain.ArtifactType {
	return k
}

// Open implements domain.ArtifactType.
func (k *Kind[T]) Open(path string) (domain.Artifact, error) {
	return k.OpenFile(path)
}

// OpenFile returns a typed handle for path, creating parent directories as needed.
func (k *Kind[T]) OpenFile(path string) (*File[T], error) {
	if path == "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrWrite, "empty artifact path"), "artifact_type", k.name)
	}
	if !strings.HasSuffix(path, k.ext) {
		path += k.ext
	}
	path = filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.Because(domain.ErrWrite, err), "failed to create artifact directory"), "path", path)
	}

	return &File[T]{path: path, kind: k}, nil
}

// File is a handle to one artifact file holding a value of type T.
type File[T any] struct {
	path string
	kind *Kind[T]
}

// Path returns the artifact path.
func (f *File[T]) Path() string {
	return f.path
}

// Type returns the artifact type of the file.
func (f *File[T]) Type() domain.ArtifactType {
	return f.kind
}

// String returns the artifact path.
func (f *File[T]) String() string {
	return f.path
}

// Exists reports whether the file is present.
func (f *File[T]) Exists() (bool, error) {
	if _, err := os.Stat(f.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat artifact"), "path", f.path)
	}
	return true, nil
}

// Delete removes the file if it is present.
func (f *File[T]) Delete() error {
	f.kind.cache.invalidate(f.path)
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to delete artifact"), "path", f.path)
	}
	return nil
}

// Read decodes the stored value.
func (f *File[T]) Read() (T, error) {
	var zero T

	info, err := os.Stat(f.path)
	if err != nil {
		return zero, zerr.With(domain.Because(domain.ErrRead, err), "path", f.path)
	}
	data, ok := f.kind.cache.get(f.path, info)
	if !ok {
		data, err = os.ReadFile(f.path)
		if err != nil {
			return zero, zerr.With(domain.Because(domain.ErrRead, err), "path", f.path)
		}
		f.kind.cache.put(f.path, info, data)
	}

	v, err := f.kind.codec.Decode(data)
	if err != nil {
		err = zerr.With(domain.Because(domain.ErrRead, err), "path", f.path)
		return zero, zerr.With(err, "artifact_type", f.kind.name)
	}
	return v, nil
}

// Write encodes v and replaces the file contents. The new contents become visible atomically.
func (f *File[T]) Write(v T) error {
	data, err := f.kind.codec.Encode(v)
	if err != nil {
		err = zerr.With(domain.Because(domain.ErrWrite, err), "path", f.path)
		return zerr.With(err, "artifact_type", f.kind.name)
	}

	f.kind.cache.invalidate(f.path)

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return zerr.With(domain.Because(domain.ErrWrite, err), "path", f.path)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(f.path)+"-*")
	if err != nil {
		return zerr.With(domain.Because(domain.ErrWrite, err), "path", f.path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // Best effort cleanup; missing after rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(domain.Because(domain.ErrWrite, err), "path", f.path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(domain.Because(domain.ErrWrite, err), "path", f.path)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return zerr.With(domain.Because(domain.ErrWrite, err), "path", f.path)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return zerr.With(domain.Because(domain.ErrWrite, err), "path", f.path)
	}
	return nil
}

// As returns a as a typed file handle.
func As[T any](a domain.Artifact) (*File[T], error) {
	f, ok := a.(*File[T])
	if !ok {
		err := zerr.With(zerr.Wrap(domain.ErrArtifactTypeMismatch, "unexpected artifact handle"), "path", pathOf(a))
		return nil, zerr.With(err, "artifact_type", typeNameOf(a))
	}
	return f, nil
}

// Read reads the value stored in a, which must hold values of type T.
func Read[T any](a domain.Artifact) (T, error) {
	f, err := As[T](a)
	if err != nil {
		var zero T
		return zero, err
	}
	return f.Read()
}

// Write stores v in a, which must hold values of type T.
func Write[T any](a domain.Artifact, v T) error {
	f, err := As[T](a)
	if err != nil {
		return err
	}
	return f.Write(v)
}

func pathOf(a domain.Artifact) string {
	if a == nil {
		return ""
	}
	return a.Path()
}

func typeNameOf(a domain.Artifact) string {
	if a == nil || a.Type() == nil {
		return ""
	}
	return a.Type().Name()
}
