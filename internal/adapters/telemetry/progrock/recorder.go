// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"
	"io"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/fileflow/internal/core/domain"
	"go.trai.ch/fileflow/internal/core/ports"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Recorder implements ports.Telemetry by recording one vertex per task run on a progrock tape.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder

	mu     sync.Mutex
	closed bool
}

// New creates a Recorder whose tape is rendered as task-prefixed lines.
// The rendering is discarded until SetOutput names a destination.
func New() *Recorder {
	return NewRecorder(NewRenderer(nil))
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Record starts recording a new vertex named after the unit of work.
// Internal vertices and vertices recorded after Close are not written to the tape.
func (r *Recorder) Record(ctx context.Context, name string, opts ...ports.VertexOption) (context.Context, ports.Vertex) {
	var cfg ports.VertexConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()

	if cfg.Internal || closed {
		v := discardVertex{}
		return ports.ContextWithVertex(ctx, v), v
	}

	v := &Vertex{vertex: r.rec.Vertex(digest.FromString(name), name)}
	return ports.ContextWithVertex(ctx, v), v
}

// SetOutput sends the rendered tape to w, if the recorder's writer renders at all.
func (r *Recorder) SetOutput(w io.Writer) {
	if s, ok := r.w.(interface{ SetOutput(io.Writer) }); ok {
		s.SetOutput(w)
	}
}

// Close flushes and closes the recording session. Calling Close twice is a no-op.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

type discardVertex struct{}

func (discardVertex) Stdout() io.Writer               { return io.Discard }
func (discardVertex) Stderr() io.Writer               { return io.Discard }
func (discardVertex) Log(_ domain.LogLevel, _ string) {}
func (discardVertex) Complete(_ error)                {}
func (discardVertex) Cached()                         {}
