package ports

import (
	"context"
	"io"

	"go.trai.ch/fileflow/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records the progress of task runs.
type Telemetry interface {
	// Record starts recording a new vertex for a unit of work.
	Record(ctx context.Context, name string, opts ...VertexOption) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents a single recorded unit of work.
type Vertex interface {
	// Stdout returns a writer for the unit's standard output stream.
	Stdout() io.Writer
	// Stderr returns a writer for the unit's error output stream.
	Stderr() io.Writer
	// Log records a message associated with this vertex.
	Log(level domain.LogLevel, msg string)
	// Complete marks the vertex as finished, successfully when err is nil.
	Complete(err error)
	// Cached marks the vertex as satisfied by existing artifacts.
	Cached()
}

// VertexConfig holds configuration for a recorded vertex.
type VertexConfig struct {
	// Internal marks bookkeeping vertices that renderers may hide.
	Internal bool
}

// VertexOption is a functional option for configuring a vertex.
type VertexOption func(*VertexConfig)

// WithInternal marks a vertex as internal bookkeeping.
func WithInternal() VertexOption {
	return func(c *VertexConfig) {
		c.Internal = true
	}
}

type vertexKey struct{}

// ContextWithVertex returns a copy of ctx carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex stored in ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
