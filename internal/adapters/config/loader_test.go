package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fileflow/internal/adapters/config"
	"go.trai.ch/fileflow/internal/core/domain"
	"go.trai.ch/fileflow/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	return config.NewLoader(mocks.NewMockLogger(ctrl))
}

func clearOverrides(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvOutputRoot, "")
	t.Setenv(config.EnvRunInfo, "")
}

func TestLoad_Success(t *testing.T) {
	clearOverrides(t)
	content := `
version: "1"
output_root: build/artifacts
run_info: full
tasks:
  count:
    cmd: ["wc", "-l"]
    input: ["data/a.csv", "data/b.csv"]
    output: int
  report:
    cmd: ["sh", "-c", "cat $FILEFLOW_INPUT_0 > $FILEFLOW_OUTPUT"]
    input: ["@count"]
    params:
      title: Lines
    environment:
      LANG: C
    workingDir: scripts
`
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, domain.PipelineFileName, content)

	p, found, err := newLoader(t).Load(tmpDir)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, tmpDir, p.Dir)
	assert.Equal(t, filepath.Join(tmpDir, "build", "artifacts"), p.Config.OutputRoot)
	assert.Equal(t, domain.RunInfoFull, p.Config.RunInfo)

	require.Len(t, p.Tasks, 2)
	count := p.Tasks[0]
	assert.Equal(t, "count", count.Name)
	assert.Equal(t, []string{"wc", "-l"}, count.Command)
	assert.Equal(t, []string{filepath.Join(tmpDir, "data", "a.csv"), filepath.Join(tmpDir, "data", "b.csv")}, count.Inputs)
	assert.Equal(t, domain.DatatypeName("int"), count.Output)
	assert.Equal(t, tmpDir, count.WorkingDir)

	report, ok := p.Task("report")
	require.True(t, ok)
	assert.Equal(t, []string{"@count"}, report.Inputs)
	assert.Equal(t, domain.DefaultCommandOutput, report.Output)
	assert.Equal(t, map[string]string{"title": "Lines"}, report.Params)
	assert.Equal(t, map[string]string{"LANG": "C"}, report.Environment)
	assert.Equal(t, filepath.Join(tmpDir, "scripts"), report.WorkingDir)

	_, ok = p.Task("missing")
	assert.False(t, ok)
}

func TestLoad_KeepsDeclarationOrder(t *testing.T) {
	clearOverrides(t)
	content := `
tasks:
  zeta:
    cmd: ["true"]
  alpha:
    cmd: ["true"]
  mid:
    cmd: ["true"]
`
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, domain.PipelineFileName, content)

	p, _, err := newLoader(t).Load(tmpDir)
	require.NoError(t, err)

	names := make([]string, 0, len(p.Tasks))
	for _, task := range p.Tasks {
		names = append(names, task.Name)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
}

func TestLoad_NotFound(t *testing.T) {
	clearOverrides(t)
	tmpDir := t.TempDir()

	p, found, err := newLoader(t).Load(tmpDir)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, filepath.Join(tmpDir, domain.DefaultOutputRoot), p.Config.OutputRoot)
	assert.Equal(t, domain.RunInfoShort, p.Config.RunInfo)
	assert.Empty(t, p.Tasks)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := newLoader(t).LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Run("dotenv file", func(t *testing.T) {
		clearOverrides(t)
		tmpDir := t.TempDir()
		writeFile(t, tmpDir, domain.PipelineFileName, "output_root: from-file\n")
		writeFile(t, tmpDir, domain.EnvFileName, "FILEFLOW_OUTPUT_ROOT=from-dotenv\nFILEFLOW_RUN_INFO=OFF\nFILEFLOW_TEST_TOKEN=secret\n")

		p, _, err := newLoader(t).Load(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tmpDir, "from-dotenv"), p.Config.OutputRoot)
		assert.Equal(t, domain.RunInfoOff, p.Config.RunInfo)
		assert.Equal(t, "secret", p.Env["FILEFLOW_TEST_TOKEN"])

		_, set := os.LookupEnv("FILEFLOW_TEST_TOKEN")
		assert.False(t, set, "dotenv values must not leak into the process environment")
	})

	t.Run("process environment wins", func(t *testing.T) {
		tmpDir := t.TempDir()
		root := filepath.Join(t.TempDir(), "from-env")
		t.Setenv(config.EnvOutputRoot, root)
		t.Setenv(config.EnvRunInfo, "")
		writeFile(t, tmpDir, domain.EnvFileName, "FILEFLOW_OUTPUT_ROOT=from-dotenv\n")

		p, found, err := newLoader(t).Load(tmpDir)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, root, p.Config.OutputRoot)
	})
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		key     string
		value   string
	}{
		{
			name:    "malformed yaml",
			content: "tasks: [",
		},
		{
			name:    "tasks not a mapping",
			content: "tasks: [a, b]",
		},
		{
			name:    "invalid task name",
			content: "tasks:\n  ../escape:\n    cmd: [\"true\"]\n",
			key:     "task",
			value:   "../escape",
		},
		{
			name:    "missing command",
			content: "tasks:\n  empty: {}\n",
			key:     "task",
			value:   "empty",
		},
		{
			name:    "forward reference",
			content: "tasks:\n  first:\n    cmd: [\"true\"]\n    input: [\"@second\"]\n  second:\n    cmd: [\"true\"]\n",
			key:     "reference",
			value:   "@second",
		},
		{
			name:    "unknown run info",
			content: "run_info: loud\n",
			key:     "run_info",
			value:   "loud",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearOverrides(t)
			tmpDir := t.TempDir()
			writeFile(t, tmpDir, domain.PipelineFileName, tt.content)

			_, _, err := newLoader(t).Load(tmpDir)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfig)

			if tt.key != "" {
				var zErr *zerr.Error
				require.ErrorAs(t, err, &zErr)
				assert.Equal(t, tt.value, zErr.Metadata()[tt.key])
			}
		})
	}
}

func TestLoad_DuplicateTask(t *testing.T) {
	clearOverrides(t)
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, domain.PipelineFileName, "tasks:\n  a:\n    cmd: [\"true\"]\n  a:\n    cmd: [\"false\"]\n")

	_, _, err := newLoader(t).Load(tmpDir)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestLoad_WarnsAboutUnknownVersion(t *testing.T) {
	clearOverrides(t)
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, domain.PipelineFileName, "version: \"2\"\n")

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	_, found, err := config.NewLoader(log).Load(tmpDir)
	require.NoError(t, err)
	assert.True(t, found)
}
