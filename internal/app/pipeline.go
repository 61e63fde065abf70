package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/fileflow/internal/adapters/artifact" //nolint:depguard // Wired in app layer
	"go.trai.ch/fileflow/internal/core/domain"
	"go.trai.ch/fileflow/internal/core/ports"
	"go.trai.ch/fileflow/internal/engine/workflow"
	"go.trai.ch/zerr"
)

// Environment variables exported to command tasks.
const (
	EnvTask        = "FILEFLOW_TASK"
	EnvInputs      = "FILEFLOW_INPUTS"
	EnvInputPrefix = "FILEFLOW_INPUT_"
	EnvOutput      = "FILEFLOW_OUTPUT"
	EnvOutputRoot  = "FILEFLOW_OUTPUT_ROOT"
	EnvParamPrefix = "FILEFLOW_PARAM_"
)

// Build creates a workflow holding one task per command task of the pipeline.
// A task whose output collides with an earlier one is dropped and logged; tasks that
// reference it fail to build.
func (a *App) Build(pipeline *domain.Pipeline) (*workflow.Workflow, error) {
	wf, err := workflow.New(pipeline.Config,
		workflow.WithLogger(a.logger),
		workflow.WithTelemetry(a.telemetry),
		workflow.WithRegistry(a.registry),
	)
	if err != nil {
		return nil, err
	}

	outputs := make(map[string]workflow.Future, len(pipeline.Tasks))
	for _, ct := range pipeline.Tasks {
		ct.Environment = mergeEnv(pipeline.Env, ct.Environment)

		def := workflow.Define(ct.Name, a.command(ct)).
			DeclareOutput(domain.Leaf[domain.Datatype](ct.Output)).
			Bind(workflow.ArgInputs, workflow.ArgOutput, workflow.ArgParams, workflow.ArgConfig)

		handle, err := wf.Register(def)
		if err != nil {
			return nil, err
		}

		inputs, err := a.inputs(pipeline, ct, outputs)
		if err != nil {
			return nil, err
		}

		params := make(workflow.Params, len(ct.Params))
		for k, v := range ct.Params {
			params[k] = v
		}

		futures, err := handle.Invoke(inputs, params)
		if errors.Is(err, domain.ErrOutputCollision) {
			continue
		}
		if err != nil {
			return nil, err
		}
		outputs[ct.Name] = futures.Value()
	}
	return wf, nil
}

func (a *App) inputs(pipeline *domain.Pipeline, ct domain.CommandTask, outputs map[string]workflow.Future) ([]workflow.Input, error) {
	raw, err := a.registry.Resolve(artifact.RawData)
	if err != nil {
		return nil, err
	}

	var inputs []workflow.Input
	for _, in := range ct.Inputs {
		if ref, ok := strings.CutPrefix(in, domain.TaskRefPrefix); ok {
			future, ok := outputs[ref]
			if !ok {
				err := zerr.Wrap(domain.ErrTaskNotFound, "referenced task has no output")
				return nil, zerr.With(zerr.With(err, "task", ct.Name), "reference", ref)
			}
			inputs = append(inputs, future)
			continue
		}

		paths, err := a.resolver.ResolveInputs([]string{in}, pipeline.Dir)
		if err != nil {
			return nil, zerr.With(err, "task", ct.Name)
		}
		for _, path := range paths {
			in, err := raw.Open(path)
			if err != nil {
				return nil, zerr.With(err, "task", ct.Name)
			}
			inputs = append(inputs, in)
		}
	}
	return inputs, nil
}

// command returns the task function that runs ct with its artifacts bound through the environment.
func (a *App) command(ct domain.CommandTask) workflow.Func {
	return func(ctx context.Context, call workflow.Call) error {
		stdout, stderr := io.Discard, io.Discard
		if vertex, ok := ports.VertexFromContext(ctx); ok {
			stdout, stderr = vertex.Stdout(), vertex.Stderr()
		}
		return a.executor.Execute(ctx, &ct, bindingEnv(call), stdout, stderr)
	}
}

// bindingEnv exports the bound artifacts and params as KEY=VALUE pairs.
func bindingEnv(call workflow.Call) []string {
	paths := make([]string, len(call.Inputs))
	for i, in := range call.Inputs {
		paths[i] = in.Path()
	}

	env := []string{
		EnvTask + "=" + call.Task,
		EnvInputs + "=" + strings.Join(paths, string(os.PathListSeparator)),
		EnvOutputRoot + "=" + call.Config.OutputRoot,
	}
	if out := call.Output(); out != nil {
		env = append(env, EnvOutput+"="+out.Path())
	}
	for i, path := range paths {
		env = append(env, EnvInputPrefix+strconv.Itoa(i)+"="+path)
	}
	for _, k := range slices.Sorted(maps.Keys(call.Params)) {
		env = append(env, EnvParamPrefix+envName(k)+"="+fmt.Sprint(call.Params[k]))
	}
	return env
}

// envName upper-cases key and replaces characters not allowed in variable names.
func envName(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
}

// mergeEnv returns base overlaid with overrides. Neither map is modified.
func mergeEnv(base, overrides map[string]string) map[string]string {
	if len(base) == 0 {
		return overrides
	}
	merged := maps.Clone(base)
	maps.Copy(merged, overrides)
	return merged
}
