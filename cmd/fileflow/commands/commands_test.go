package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fileflow/cmd/fileflow/commands"
	"go.trai.ch/fileflow/internal/adapters/artifact"
	"go.trai.ch/fileflow/internal/adapters/fs"
	"go.trai.ch/fileflow/internal/adapters/logger"
	"go.trai.ch/fileflow/internal/adapters/telemetry/progrock"
	"go.trai.ch/fileflow/internal/app"
	"go.trai.ch/fileflow/internal/build"
	"go.trai.ch/fileflow/internal/core/domain"
	"go.trai.ch/fileflow/internal/core/ports/mocks"
	"go.trai.ch/fileflow/internal/engine/registry"
	"go.uber.org/mock/gomock"
)

const configPath = "/pipelines/fileflow.yaml"

type harness struct {
	cli      *commands.CLI
	loader   *mocks.MockConfigLoader
	executor *mocks.MockExecutor
	runInfo  *mocks.MockRunInfo
	out      *bytes.Buffer
	root     string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	cache, err := artifact.NewReadCache(artifact.DefaultReadCacheSize)
	require.NoError(t, err)

	h := &harness{
		loader:   mocks.NewMockConfigLoader(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		runInfo:  mocks.NewMockRunInfo(ctrl),
		out:      &bytes.Buffer{},
		root:     filepath.Join(t.TempDir(), "out"),
	}
	a := app.New(h.loader, h.executor, logger.NewWriter(io.Discard), progrock.New(),
		fs.NewResolver(), h.runInfo, registry.New(artifact.Builtins(cache)))

	h.cli = commands.New(a)
	h.cli.SetOutput(h.out)
	return h
}

func (h *harness) pipeline() *domain.Pipeline {
	return &domain.Pipeline{
		Config: domain.Config{OutputRoot: h.root, RunInfo: domain.RunInfoOff},
		Dir:    filepath.Dir(h.root),
		Tasks: []domain.CommandTask{
			{Name: "greet", Command: []string{"echo", "hi"}, Output: "text"},
		},
	}
}

func (h *harness) output() string {
	return filepath.Join(h.root, "greet", "greet.txt")
}

func writeOutput(_ context.Context, _ *domain.CommandTask, env []string, _, _ io.Writer) error {
	for _, kv := range env {
		if path, ok := strings.CutPrefix(kv, app.EnvOutput+"="); ok {
			return os.WriteFile(path, []byte("hi\n"), 0o600)
		}
	}
	return errors.New("no output bound")
}

func TestRun_Success(t *testing.T) {
	h := newHarness(t)
	p := h.pipeline()

	h.loader.EXPECT().LoadFile(configPath).Return(p, nil)
	h.runInfo.EXPECT().Report(gomock.Any(), p)
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(writeOutput)

	h.cli.SetArgs([]string{"run", "-c", configPath})
	require.NoError(t, h.cli.Execute(context.Background()))
	assert.FileExists(t, h.output())
}

func TestRun_KeepGoing(t *testing.T) {
	h := newHarness(t)
	p := h.pipeline()
	p.Tasks = append(p.Tasks, domain.CommandTask{Name: "wave", Command: []string{"false"}, Output: "text"})

	h.loader.EXPECT().LoadFile(configPath).Return(p, nil)
	h.runInfo.EXPECT().Report(gomock.Any(), p)
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("exit status 1")).Times(2)

	h.cli.SetArgs([]string{"run", "--keep-going", "-c", configPath})
	err := h.cli.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
}

func TestRun_RejectsArguments(t *testing.T) {
	h := newHarness(t)

	h.cli.SetArgs([]string{"run", "greet"})
	require.Error(t, h.cli.Execute(context.Background()))
}

func TestStatus(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().LoadFile(configPath).Return(h.pipeline(), nil).Times(2)

	h.cli.SetArgs([]string{"status", "-c", configPath})
	require.NoError(t, h.cli.Execute(context.Background()))
	assert.Contains(t, h.out.String(), "pending")
	assert.Contains(t, h.out.String(), "greet()")

	require.NoError(t, os.WriteFile(h.output(), []byte("hi\n"), 0o600))
	h.out.Reset()

	require.NoError(t, h.cli.Execute(context.Background()))
	assert.Contains(t, h.out.String(), "done")
	assert.Contains(t, h.out.String(), "3.0 bytes")
}

func TestClean(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().LoadFile(configPath).Return(h.pipeline(), nil).Times(2)

	require.NoError(t, os.MkdirAll(filepath.Dir(h.output()), 0o750))
	require.NoError(t, os.WriteFile(h.output(), []byte("hi\n"), 0o600))

	h.cli.SetArgs([]string{"clean", "-c", configPath, "missing"})
	err := h.cli.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.FileExists(t, h.output())

	h.cli.SetArgs([]string{"clean", "-c", configPath, "greet"})
	require.NoError(t, h.cli.Execute(context.Background()))
	assert.Contains(t, h.out.String(), "cleaned greet()")
	assert.NoFileExists(t, h.output())
}

func TestVersion(t *testing.T) {
	h := newHarness(t)

	h.cli.SetArgs([]string{"version"})
	require.NoError(t, h.cli.Execute(context.Background()))
	assert.Equal(t, build.String()+"\n", h.out.String())
}

func TestRoot_Help(t *testing.T) {
	h := newHarness(t)

	h.cli.SetArgs([]string{"--help"})
	require.NoError(t, h.cli.Execute(context.Background()))
	assert.Contains(t, h.out.String(), "status")
}
