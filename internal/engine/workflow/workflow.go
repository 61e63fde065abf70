// Package workflow registers task functions, turns their invocations into tasks with
// deterministic output paths and runs those tasks in registration order.
//
// A task is skipped when all of its output artifacts already exist. Existence is the only
// caching criterion; the check and the subsequent write are not atomic across processes.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"go.trai.ch/fileflow/internal/core/domain"
	"go.trai.ch/fileflow/internal/core/ports"
	"go.trai.ch/fileflow/internal/engine/registry"
	"go.trai.ch/zerr"
)

// RunOptions controls a pipeline run.
type RunOptions struct {
	// KeepGoing continues with the remaining tasks after a failure instead of stopping.
	// All failures are returned together.
	KeepGoing bool
}

// Workflow owns the configuration, the ordered task list and the output path index.
// It is not safe for concurrent registration and execution.
type Workflow struct {
	cfg       domain.Config
	registry  *registry.Registry
	logger    ports.Logger
	telemetry ports.Telemetry

	tasks      []*Task
	owners     map[string]*Task
	collisions []error
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger sets the logger used for task transitions and collisions.
func WithLogger(logger ports.Logger) Option {
	return func(w *Workflow) {
		w.logger = logger
	}
}

// WithTelemetry sets the telemetry that records one vertex per task run.
func WithTelemetry(telemetry ports.Telemetry) Option {
	return func(w *Workflow) {
		w.telemetry = telemetry
	}
}

// WithRegistry sets the type registry used to resolve declared datatypes.
func WithRegistry(r *registry.Registry) Option {
	return func(w *Workflow) {
		w.registry = r
	}
}

// New creates a workflow with the normalized cfg.
func New(cfg domain.Config, opts ...Option) (*Workflow, error) {
	cfg, err := cfg.Normalize()
	if err != nil {
		return nil, err
	}

	w := &Workflow{
		cfg:       cfg,
		registry:  registry.New(nil),
		logger:    nopLogger{},
		telemetry: nopTelemetry{},
		owners:    make(map[string]*Task),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Config returns the workflow configuration.
func (w *Workflow) Config() domain.Config {
	return w.cfg
}

// SetConfig replaces the configuration. It fails with domain.ErrConfig once a task exists.
func (w *Workflow) SetConfig(cfg domain.Config) error {
	if len(w.tasks) > 0 {
		return zerr.With(zerr.Wrap(domain.ErrConfig, "configuration is fixed once tasks are registered"), "tasks", len(w.tasks))
	}
	cfg, err := cfg.Normalize()
	if err != nil {
		return err
	}
	w.cfg = cfg
	return nil
}

// RegisterFiletype maps datatype to artifactType in the workflow's registry.
func (w *Workflow) RegisterFiletype(datatype domain.Datatype, artifactType domain.ArtifactType) {
	w.registry.Register(datatype, artifactType)
}

// Tasks returns the registered tasks in registration order.
func (w *Workflow) Tasks() []*Task {
	return slices.Clone(w.tasks)
}

// Collisions returns the collision errors reported by Invoke, in order.
func (w *Workflow) Collisions() []error {
	return slices.Clone(w.collisions)
}

// Handle is a registered task function. Each Invoke creates one task.
type Handle struct {
	wf         *Workflow
	def        *Definition
	inputTypes []domain.ArtifactType
}

// Definition returns the registered definition.
func (h *Handle) Definition() *Definition {
	return h.def
}

// Register validates def and resolves its declared datatypes. Errors are returned before any
// task exists: domain.ErrTaskValidation for unusable definitions and
// domain.ErrUnresolvedArtifactType for datatypes without an artifact type.
func (w *Workflow) Register(def *Definition) (*Handle, error) {
	if err := def.validate(); err != nil {
		return nil, err
	}
	def = Partial(def, def.name, nil)

	inputTypes := make([]domain.ArtifactType, len(def.inputs))
	for i, datatype := range def.inputs {
		artifactType, err := w.registry.Resolve(datatype)
		if err != nil {
			return nil, zerr.With(zerr.With(err, "input", i), "task", def.name)
		}
		inputTypes[i] = artifactType
	}

	if _, err := Futurize(def.output, w.registry, nil); err != nil {
		return nil, zerr.With(err, "task", def.name)
	}

	return &Handle{wf: w, def: def, inputTypes: inputTypes}, nil
}

// Invoke creates a task over inputs with params and returns its future tree, which mirrors
// the declared output shape. When another task already owns one of the derived output paths
// the task is dropped and a domain.ErrOutputCollision error is returned and recorded.
func (h *Handle) Invoke(inputs []Input, params Params) (domain.Tree[Future], error) {
	w := h.wf
	if err := h.checkInputs(inputs); err != nil {
		return domain.Tree[Future]{}, err
	}

	merged := maps.Clone(h.def.params)
	if len(params) > 0 {
		if merged == nil {
			merged = Params{}
		}
		maps.Copy(merged, params)
	}

	task := &Task{
		wf:     w,
		def:    h.def,
		inputs: slices.Clone(inputs),
		params: merged,
		status: domain.TaskStatusPending,
	}

	futures, err := Futurize(h.def.output, w.registry, task)
	if err != nil {
		return domain.Tree[Future]{}, err
	}
	task.futures = futures

	inputPaths := make([]string, len(inputs))
	for i, in := range inputs {
		inputPaths[i] = in.Path()
	}
	task.paths, err = domain.MapTree(futures, func(index []int, f Future) (string, error) {
		return OutputPath(w.cfg.OutputRoot, h.def.name, merged, inputPaths, index, f.Type().Extension()), nil
	})
	if err != nil {
		return domain.Tree[Future]{}, err
	}

	for _, path := range task.paths.Values() {
		if owner, ok := w.owners[path]; ok {
			err := zerr.Wrap(domain.ErrOutputCollision, fmt.Sprintf("%s collides with %s", task, owner))
			err = zerr.With(zerr.With(err, "task", task.String()), "existing_task", owner.String())
			err = zerr.With(err, "path", path)
			w.collisions = append(w.collisions, err)
			w.logger.Error(err)
			return domain.Tree[Future]{}, err
		}
	}

	for _, path := range task.paths.Values() {
		w.owners[path] = task
	}
	w.tasks = append(w.tasks, task)
	return futures, nil
}

func (h *Handle) checkInputs(inputs []Input) error {
	fail := func(msg string, i int) error {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrTaskValidation, msg), "task", h.def.name), "input", i)
	}

	if len(h.inputTypes) > 0 && len(inputs) != len(h.inputTypes) {
		err := zerr.With(zerr.Wrap(domain.ErrTaskValidation, "wrong number of inputs"), "task", h.def.name)
		return zerr.With(zerr.With(err, "want", len(h.inputTypes)), "got", len(inputs))
	}

	for i, in := range inputs {
		if in == nil || in.Type() == nil {
			return fail("input is nil", i)
		}
		if f, ok := in.(Future); ok && (f.task == nil || f.task.wf != h.wf) {
			return fail("future belongs to another workflow", i)
		}
		if in.Path() == "" {
			return fail("input has no path", i)
		}
		if i < len(h.inputTypes) && !sameType(in.Type(), h.inputTypes[i]) {
			return zerr.With(fail("input has unexpected artifact type", i), "artifact_type", in.Type().Name())
		}
	}
	return nil
}

func sameType(a, b domain.ArtifactType) bool {
	return a == b || (a.Name() == b.Name() && a.Extension() == b.Extension())
}

// Run runs the tasks in registration order. By default it stops at the first failure;
// with opts.KeepGoing it runs every task. Cancellation of ctx is observed between tasks.
// The returned error matches domain.ErrBuildExecutionFailed and every task failure.
func (w *Workflow) Run(ctx context.Context, opts RunOptions) error {
	var errs error
	for _, task := range w.tasks {
		if err := ctx.Err(); err != nil {
			errs = errors.Join(errs, err)
			break
		}
		if err := task.Run(ctx); err != nil {
			w.logger.Error(err)
			errs = errors.Join(errs, err)
			if !opts.KeepGoing {
				break
			}
		}
	}

	if errs != nil {
		return errors.Join(domain.ErrBuildExecutionFailed, errs)
	}
	return nil
}

// Lookup returns the tasks created from the function named name.
func (w *Workflow) Lookup(name string) []*Task {
	var out []*Task
	for _, task := range w.tasks {
		if task.Name() == name {
			out = append(out, task)
		}
	}
	return out
}

// Owner returns the task that owns the output at path.
func (w *Workflow) Owner(path string) (*Task, bool) {
	task, ok := w.owners[filepath.Clean(path)]
	return task, ok
}
