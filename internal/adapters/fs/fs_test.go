package fs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fileflow/internal/adapters/fs"
)

// writeTree creates the files below root, making parents as needed.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(f), 0o600))
	}
}

func TestWalker_WalkFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir,
		".git/config",
		".jj/repo",
		"ignored/file",
		"out/double/a.int",
		"src/main.go",
		"README.md",
	)

	walker := fs.NewWalker()
	ignores := []string{"ignored", filepath.Join(tmpDir, "out")}

	files := make(map[string]bool)
	for path := range walker.WalkFiles(tmpDir, ignores) {
		rel, err := filepath.Rel(tmpDir, path)
		require.NoError(t, err)
		files[rel] = true
	}

	assert.Equal(t, map[string]bool{
		"README.md":   true,
		"src/main.go": true,
	}, files)
}

func TestWalker_WalkFiles_StopsEarly(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "a", "b", "c")

	walker := fs.NewWalker()

	count := 0
	for range walker.WalkFiles(tmpDir, nil) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestWalker_NewestFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "old.txt", "src/new.txt", "out/newer.int")

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(filepath.Join(tmpDir, "old.txt"), base, base))
	require.NoError(t, os.Chtimes(filepath.Join(tmpDir, "src/new.txt"), base.Add(time.Minute), base.Add(time.Minute)))
	require.NoError(t, os.Chtimes(filepath.Join(tmpDir, "out/newer.int"), base.Add(time.Hour), base.Add(time.Hour)))

	walker := fs.NewWalker()

	path, modTime, err := walker.NewestFile(tmpDir, []string{filepath.Join(tmpDir, "out")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "src/new.txt"), path)
	assert.True(t, modTime.Equal(base.Add(time.Minute)))
}

func TestWalker_NewestFile_Empty(t *testing.T) {
	walker := fs.NewWalker()

	path, modTime, err := walker.NewestFile(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.True(t, modTime.IsZero())
}
