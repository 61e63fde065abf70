package workflow

import (
	"fmt"
	"slices"

	"go.trai.ch/fileflow/internal/core/domain"
	"go.trai.ch/zerr"
)

// Resolver resolves datatypes to artifact types.
type Resolver interface {
	Resolve(datatype domain.Datatype) (domain.ArtifactType, error)
}

// Future is a placeholder for an artifact a task will produce.
// It is an immutable value; two futures are equal when they share artifact type, task and index.
type Future struct {
	artifactType domain.ArtifactType
	task         *Task
	index        []int
}

// Type returns the artifact type of the promised artifact.
func (f Future) Type() domain.ArtifactType {
	return f.artifactType
}

// Task returns the task that produces the artifact.
func (f Future) Task() *Task {
	return f.task
}

// Index returns the position of the artifact in the task's output shape.
// It is empty for a single-output task.
func (f Future) Index() []int {
	return slices.Clone(f.index)
}

// Path returns the derived output path of the promised artifact.
func (f Future) Path() string {
	if f.task == nil {
		return ""
	}
	path, _ := f.task.paths.Get(f.index...)
	return path
}

// Artifact opens the promised artifact.
func (f Future) Artifact() (domain.Artifact, error) {
	path := f.Path()
	if path == "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrTaskValidation, "future has no derived path"), "index", f.index)
	}
	return f.artifactType.Open(path)
}

// Equal reports whether f and other promise the same artifact.
func (f Future) Equal(other Future) bool {
	return f.artifactType == other.artifactType &&
		f.task == other.task &&
		slices.Equal(f.index, other.index)
}

// String returns a readable description of the future.
func (f Future) String() string {
	name := "<nil>"
	if f.task != nil {
		name = f.task.String()
	}
	if len(f.index) == 0 {
		return fmt.Sprintf("future(%s)", name)
	}
	return fmt.Sprintf("future(%s%v)", name, f.index)
}

// Futurize builds a tree of futures mirroring shape. Leaves are visited depth-first, left to
// right; each resolves its artifact type through resolver and records its index path.
// The first unresolved leaf aborts the construction.
func Futurize(shape domain.Tree[domain.Datatype], resolver Resolver, task *Task) (domain.Tree[Future], error) {
	return domain.MapTree(shape, func(index []int, datatype domain.Datatype) (Future, error) {
		artifactType, err := resolver.Resolve(datatype)
		if err != nil {
			err = zerr.With(err, "index", index)
			if task != nil {
				err = zerr.With(err, "task", task.Name())
			}
			return Future{}, err
		}
		return Future{artifactType: artifactType, task: task, index: index}, nil
	})
}
