// Package app implements the application layer for fileflow.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"

	"go.trai.ch/fileflow/internal/adapters/artifact" //nolint:depguard // Wired in app layer
	"go.trai.ch/fileflow/internal/core/domain"
	"go.trai.ch/fileflow/internal/core/ports"
	"go.trai.ch/fileflow/internal/engine/registry"
	"go.trai.ch/fileflow/internal/engine/workflow"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	logger       ports.Logger
	telemetry    ports.Telemetry
	resolver     ports.InputResolver
	runInfo      ports.RunInfo
	registry     *registry.Registry
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	logger ports.Logger,
	telemetry ports.Telemetry,
	resolver ports.InputResolver,
	runInfo ports.RunInfo,
	reg *registry.Registry,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		logger:       logger,
		telemetry:    telemetry,
		resolver:     resolver,
		runInfo:      runInfo,
		registry:     reg,
	}
}

// Stream prints the telemetry of each task run (command output and final state) to w,
// when the telemetry adapter can render it.
func (a *App) Stream(w io.Writer) *App {
	if s, ok := a.telemetry.(interface{ SetOutput(io.Writer) }); ok {
		s.SetOutput(w)
	}
	return a
}

// Options selects the pipeline file.
type Options struct {
	// Dir is searched for the pipeline file. Empty means the working directory.
	Dir string
	// ConfigPath names the pipeline file explicitly. It must exist.
	ConfigPath string
}

// RunOptions configures a pipeline run.
type RunOptions struct {
	Options
	// KeepGoing runs every task even after a failure.
	KeepGoing bool
}

// Run loads the pipeline, logs run information and runs every task in declaration order.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	pipeline, err := a.load(opts.Options)
	if err != nil {
		return err
	}

	a.runInfo.Report(ctx, pipeline)

	wf, err := a.Build(pipeline)
	if err != nil {
		return err
	}
	if len(wf.Tasks()) == 0 {
		a.logger.Warn("pipeline declares no tasks")
		return nil
	}

	runErr := wf.Run(ctx, workflow.RunOptions{KeepGoing: opts.KeepGoing})
	a.logger.Info(summarize(wf.Tasks()))
	if runErr != nil {
		return zerr.Wrap(runErr, "pipeline run failed")
	}
	return nil
}

// OutputState describes one output artifact of a task.
type OutputState struct {
	Path   string
	Exists bool
	// Size is the human-readable size of an existing artifact.
	Size string
}

// TaskState describes the artifacts of one task.
type TaskState struct {
	Task    string
	Outputs []OutputState
}

// Complete reports whether every output exists, meaning the next run skips the task.
func (s TaskState) Complete() bool {
	for _, o := range s.Outputs {
		if !o.Exists {
			return false
		}
	}
	return true
}

// Status probes the output artifacts of every task without running anything.
func (a *App) Status(ctx context.Context, opts Options) ([]TaskState, error) {
	pipeline, err := a.load(opts)
	if err != nil {
		return nil, err
	}

	wf, err := a.Build(pipeline)
	if err != nil {
		return nil, err
	}

	tasks := wf.Tasks()
	states := make([]TaskState, len(tasks))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, task := range tasks {
		g.Go(func() error {
			state, err := probe(task)
			if err != nil {
				return err
			}
			states[i] = state
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, zerr.Wrap(err, "failed to probe artifacts")
	}
	return states, nil
}

// probe inspects the derived output paths only. Opening the artifacts would create
// their directories.
func probe(task *workflow.Task) (TaskState, error) {
	state := TaskState{Task: task.String()}
	for _, path := range task.OutputPaths() {
		out := OutputState{Path: path}
		size, err := artifact.Size(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return TaskState{}, zerr.With(err, "task", task.String())
		default:
			out.Exists = true
			out.Size = size
		}
		state.Outputs = append(state.Outputs, out)
	}
	return state, nil
}

// Clean deletes the output artifacts of the named tasks, or of every task when names is empty.
// Unknown names are reported before anything is deleted.
func (a *App) Clean(_ context.Context, opts Options, names ...string) ([]string, error) {
	pipeline, err := a.load(opts)
	if err != nil {
		return nil, err
	}

	wf, err := a.Build(pipeline)
	if err != nil {
		return nil, err
	}

	targets := wf.Tasks()
	if len(names) > 0 {
		targets = nil
		for _, name := range names {
			matched := wf.Lookup(name)
			if len(matched) == 0 {
				return nil, zerr.With(zerr.Wrap(domain.ErrTaskNotFound, "cannot clean unknown task"), "task", name)
			}
			targets = append(targets, matched...)
		}
	}

	cleaned := make([]string, 0, len(targets))
	for _, task := range targets {
		if err := task.Clean(); err != nil {
			return cleaned, err
		}
		a.logger.Info("cleaned " + task.String())
		cleaned = append(cleaned, task.String())
	}
	return cleaned, nil
}

func (a *App) load(opts Options) (*domain.Pipeline, error) {
	if opts.ConfigPath != "" {
		pipeline, err := a.configLoader.LoadFile(opts.ConfigPath)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to load configuration")
		}
		return pipeline, nil
	}

	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to determine working directory")
		}
		dir = wd
	}

	pipeline, found, err := a.configLoader.Load(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if !found {
		a.logger.Warn(fmt.Sprintf("no %s found in %s, using defaults", domain.PipelineFileName, dir))
	}
	return pipeline, nil
}

func summarize(tasks []*workflow.Task) string {
	counts := make(map[domain.TaskStatus]int)
	for _, task := range tasks {
		counts[task.Status()]++
	}
	return fmt.Sprintf("%d tasks: %d completed, %d skipped, %d failed, %d not run",
		len(tasks),
		counts[domain.TaskStatusCompleted],
		counts[domain.TaskStatusSkipped],
		counts[domain.TaskStatusFailed],
		counts[domain.TaskStatusPending],
	)
}
