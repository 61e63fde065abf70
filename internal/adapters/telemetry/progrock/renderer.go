package progrock

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/vito/progrock"
)

var _ progrock.Writer = (*Renderer)(nil)

// Renderer reads the recorded tape and prints it as linear, task-prefixed lines.
// Vertex output is buffered per vertex until a full line is available.
type Renderer struct {
	mu       sync.Mutex
	out      io.Writer
	names    map[string]string
	finished map[string]bool
	order    []string
	buffers  map[string]*bytes.Buffer
}

// NewRenderer creates a Renderer printing to out. A nil out discards everything.
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = io.Discard
	}
	return &Renderer{
		out:      out,
		names:    make(map[string]string),
		finished: make(map[string]bool),
		buffers:  make(map[string]*bytes.Buffer),
	}
}

// SetOutput redirects subsequent output to w.
func (r *Renderer) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = w
}

// WriteStatus implements progrock.Writer.
func (r *Renderer) WriteStatus(update *progrock.StatusUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range update.Vertexes {
		if _, seen := r.names[v.Id]; !seen {
			r.order = append(r.order, v.Id)
		}
		r.names[v.Id] = v.Name
		if v.Completed == nil {
			// Recorded again: a new run of the same vertex.
			delete(r.finished, v.Id)
		}
	}

	for _, l := range update.Logs {
		buf, ok := r.buffers[l.Vertex]
		if !ok {
			buf = new(bytes.Buffer)
			r.buffers[l.Vertex] = buf
			if _, seen := r.names[l.Vertex]; !seen {
				r.order = append(r.order, l.Vertex)
				r.names[l.Vertex] = ""
			}
		}
		buf.Write(l.Data)
		r.flushLinesLocked(l.Vertex, buf)
	}

	for _, v := range update.Vertexes {
		if v.Completed == nil || r.finished[v.Id] {
			continue
		}
		r.finished[v.Id] = true
		r.flushRestLocked(v.Id)

		switch {
		case v.Cached:
			r.printLocked(v.Id, "cached")
		case v.Error != nil:
			r.printLocked(v.Id, "failed: "+*v.Error)
		default:
			r.printLocked(v.Id, "done")
		}
	}
	return nil
}

// Close prints any partial lines still buffered.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		r.flushRestLocked(id)
	}
	return nil
}

func (r *Renderer) flushLinesLocked(id string, buf *bytes.Buffer) {
	for {
		i := bytes.IndexByte(buf.Bytes(), '\n')
		if i < 0 {
			return
		}
		line := string(buf.Next(i + 1))
		r.printLocked(id, line[:len(line)-1])
	}
}

func (r *Renderer) flushRestLocked(id string) {
	buf, ok := r.buffers[id]
	if !ok || buf.Len() == 0 {
		return
	}
	r.printLocked(id, buf.String())
	buf.Reset()
}

func (r *Renderer) printLocked(id, line string) {
	name := r.names[id]
	if name == "" {
		name = id
	}
	_, _ = fmt.Fprintf(r.out, "[%s] %s\n", name, line)
}
