package workflow

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/fileflow/internal/core/domain"
	"go.trai.ch/fileflow/internal/core/ports"
	"go.trai.ch/zerr"
)

// Task is one invocation of a task function bound to concrete inputs and parameters.
// Tasks are created by Handle.Invoke and owned by their Workflow.
type Task struct {
	wf      *Workflow
	def     *Definition
	inputs  []Input
	params  Params
	futures domain.Tree[Future]
	paths   domain.Tree[string]

	mu     sync.RWMutex
	status domain.TaskStatus
	err    error
}

// Name returns the function name.
func (t *Task) Name() string {
	return t.def.name
}

// String identifies the task by function name, input file names and parameters.
func (t *Task) String() string {
	var b strings.Builder
	b.WriteString(t.def.name)
	b.WriteByte('(')
	for i, in := range t.inputs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(filepath.Base(in.Path()))
	}
	if len(t.params) > 0 {
		keys := slices.Sorted(maps.Keys(t.params))
		b.WriteString("; ")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			_, _ = fmt.Fprintf(&b, "%s=%v", k, t.params[k])
		}
	}
	b.WriteByte(')')
	return b.String()
}

// Inputs returns the task inputs in invocation order.
func (t *Task) Inputs() []Input {
	return slices.Clone(t.inputs)
}

// Params returns the task parameters.
func (t *Task) Params() Params {
	return maps.Clone(t.params)
}

// Outputs returns the future tree returned by Invoke.
func (t *Task) Outputs() domain.Tree[Future] {
	return t.futures
}

// OutputPaths returns the derived output paths, depth-first.
func (t *Task) OutputPaths() []string {
	return t.paths.Values()
}

// Status returns the lifecycle state of the task.
func (t *Task) Status() domain.TaskStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// Err returns the error of the last failed run.
func (t *Task) Err() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

func (t *Task) setStatus(status domain.TaskStatus, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
	t.err = err
}

// Run runs the task function unless every output artifact already exists.
// When the function fails or panics, outputs it left behind are deleted and the
// returned error matches domain.ErrTaskExecutionFailed.
func (t *Task) Run(ctx context.Context) error {
	ctx, vertex := t.wf.telemetry.Record(ctx, t.String())
	logger := t.wf.logger

	outputs, err := t.openOutputs()
	if err != nil {
		return t.fail(vertex, err)
	}

	complete, err := allExist(outputs)
	if err != nil {
		return t.fail(vertex, err)
	}
	if complete {
		t.setStatus(domain.TaskStatusSkipped, nil)
		logger.Info(fmt.Sprintf("skipped %s: outputs exist", t))
		vertex.Cached()
		return nil
	}

	t.setStatus(domain.TaskStatusRunning, nil)
	logger.Info(fmt.Sprintf("running %s", t))

	call, err := t.bind(outputs)
	if err != nil {
		return t.fail(vertex, err)
	}

	if err := t.invoke(ports.ContextWithVertex(ctx, vertex), call); err != nil {
		if cleanupErr := deleteAll(outputs); cleanupErr != nil {
			err = errors.Join(err, cleanupErr)
		}
		return t.fail(vertex, err)
	}

	t.setStatus(domain.TaskStatusCompleted, nil)
	for _, a := range outputs.All() {
		if ok, err := a.Exists(); err == nil && !ok {
			logger.Warn(fmt.Sprintf("%s completed without writing %s", t, a.Path()))
		}
	}
	vertex.Complete(nil)
	return nil
}

// Clean deletes the task's output artifacts and resets it to pending.
func (t *Task) Clean() error {
	outputs, err := t.openOutputs()
	if err != nil {
		return zerr.With(err, "task", t.String())
	}
	if err := deleteAll(outputs); err != nil {
		return zerr.With(err, "task", t.String())
	}
	t.setStatus(domain.TaskStatusPending, nil)
	return nil
}

func (t *Task) fail(vertex ports.Vertex, cause error) error {
	err := zerr.With(domain.Because(domain.ErrTaskExecutionFailed, cause), "task", t.String())
	t.setStatus(domain.TaskStatusFailed, err)
	vertex.Complete(err)
	return err
}

func (t *Task) invoke(ctx context.Context, call Call) (err error) {
	defer zerr.Defer(func(panicErr error) {
		err = zerr.Wrap(panicErr, "task function panicked")
	})
	return t.def.fn(ctx, call)
}

func (t *Task) bind(outputs domain.Tree[domain.Artifact]) (Call, error) {
	call := Call{Task: t.def.name}

	if t.def.Binds(ArgInputs) {
		inputs := make([]domain.Artifact, 0, len(t.inputs))
		for i, in := range t.inputs {
			a, err := openInput(in)
			if err != nil {
				return Call{}, zerr.With(err, "input", i)
			}
			inputs = append(inputs, a)
		}
		call.Inputs = inputs
	}
	if t.def.Binds(ArgOutput) {
		call.Outputs = outputs
	}
	if t.def.Binds(ArgParams) {
		call.Params = maps.Clone(t.params)
		if call.Params == nil {
			call.Params = Params{}
		}
	}
	if t.def.Binds(ArgConfig) {
		call.Config = t.wf.cfg
	}
	return call, nil
}

func (t *Task) openOutputs() (domain.Tree[domain.Artifact], error) {
	return domain.MapTree(t.futures, func(_ []int, f Future) (domain.Artifact, error) {
		return f.Artifact()
	})
}

func openInput(in Input) (domain.Artifact, error) {
	switch v := in.(type) {
	case Future:
		return v.Artifact()
	case domain.Artifact:
		return v, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrTaskValidation, "unsupported input"), "input_type", fmt.Sprintf("%T", in))
	}
}

func allExist(outputs domain.Tree[domain.Artifact]) (bool, error) {
	for _, a := range outputs.All() {
		ok, err := a.Exists()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func deleteAll(outputs domain.Tree[domain.Artifact]) error {
	var errs error
	for _, a := range outputs.All() {
		if err := a.Delete(); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
