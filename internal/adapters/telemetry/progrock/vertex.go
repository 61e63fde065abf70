package progrock

import (
	"fmt"
	"io"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/fileflow/internal/core/domain"
)

// Vertex implements ports.Vertex wrapping *progrock.VertexRecorder.
// Each task run records its command output and final state on its own vertex.
type Vertex struct {
	vertex *progrock.VertexRecorder
	done   sync.Once
}

// Stdout returns a writer to capture standard output stream.
func (v *Vertex) Stdout() io.Writer {
	return v.vertex.Stdout()
}

// Stderr returns a writer to capture error output stream.
func (v *Vertex) Stderr() io.Writer {
	return v.vertex.Stderr()
}

// Log writes a level-tagged line to the vertex output.
func (v *Vertex) Log(level domain.LogLevel, msg string) {
	w := v.vertex.Stdout()
	if level >= domain.LogLevelWarn {
		w = v.vertex.Stderr()
	}
	_, _ = fmt.Fprintf(w, "[%s] %s\n", level.String(), msg)
}

// Complete marks the vertex as finished. A nil err records success.
// Only the first of Complete and Cached takes effect.
func (v *Vertex) Complete(err error) {
	v.done.Do(func() {
		v.vertex.Done(err)
	})
}

// Cached marks the vertex as skipped because its artifacts already exist.
func (v *Vertex) Cached() {
	v.done.Do(func() {
		v.vertex.Cached()
		v.vertex.Done(nil)
	})
}
