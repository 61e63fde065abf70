package workflow_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/fileflow/internal/adapters/artifact"
	"go.trai.ch/fileflow/internal/core/domain"
	"go.trai.ch/fileflow/internal/engine/workflow"
)

func newWorkflow(t *testing.T, opts ...workflow.Option) *workflow.Workflow {
	t.Helper()
	wf, err := workflow.New(domain.Config{OutputRoot: filepath.Join(t.TempDir(), "out")}, opts...)
	require.NoError(t, err)
	return wf
}

func intInput(t *testing.T, name string, v int) *artifact.File[int] {
	t.Helper()
	f, err := artifact.Int.OpenFile(filepath.Join(t.TempDir(), name))
	require.NoError(t, err)
	require.NoError(t, f.Write(v))
	return f
}

func single(datatype domain.Datatype) domain.Tree[domain.Datatype] {
	return domain.Leaf(datatype)
}

// doubler returns the double definition and a pointer to its invocation counter.
func doubler() (*workflow.Definition, *int) {
	calls := 0
	def := workflow.Define("double", func(_ context.Context, call workflow.Call) error {
		calls++
		v, err := artifact.Read[int](call.Input(0))
		if err != nil {
			return err
		}
		return artifact.Write(call.Output(), v*2)
	}).
		DeclareInputs(artifact.Int).
		DeclareOutput(single(artifact.Int)).
		Bind(workflow.ArgInputs, workflow.ArgOutput)
	return def, &calls
}

func readInt(t *testing.T, f workflow.Future) int {
	t.Helper()
	a, err := f.Artifact()
	require.NoError(t, err)
	v, err := artifact.Read[int](a)
	require.NoError(t, err)
	return v
}
