package artifact_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fileflow/internal/adapters/artifact"
)

func TestReadCache(t *testing.T) {
	cache, err := artifact.NewReadCache(artifact.DefaultReadCacheSize)
	require.NoError(t, err)

	kind := artifact.Text.WithCache(cache)
	f, err := kind.OpenFile(filepath.Join(t.TempDir(), "note"))
	require.NoError(t, err)

	require.NoError(t, f.Write("first"))
	v, err := f.Read()
	require.NoError(t, err)
	assert.Equal(t, "first", v)
	assert.Equal(t, 1, cache.Len())

	t.Run("write invalidates", func(t *testing.T) {
		require.NoError(t, f.Write("second"))
		assert.Equal(t, 0, cache.Len())

		v, err := f.Read()
		require.NoError(t, err)
		assert.Equal(t, "second", v)
	})

	t.Run("external modification is detected", func(t *testing.T) {
		require.NoError(t, os.WriteFile(f.Path(), []byte("changed outside"), 0o600))
		later := time.Now().Add(time.Minute)
		require.NoError(t, os.Chtimes(f.Path(), later, later))

		v, err := f.Read()
		require.NoError(t, err)
		assert.Equal(t, "changed outside", v)
	})

	t.Run("delete invalidates", func(t *testing.T) {
		require.NoError(t, f.Delete())
		assert.Equal(t, 0, cache.Len())
	})
}

func TestReadCache_CallerMutationsDoNotLeak(t *testing.T) {
	cache, err := artifact.NewReadCache(artifact.DefaultReadCacheSize)
	require.NoError(t, err)
	dir := t.TempDir()

	t.Run("bytes", func(t *testing.T) {
		f, err := artifact.Bytes.WithCache(cache).OpenFile(filepath.Join(dir, "blob"))
		require.NoError(t, err)
		require.NoError(t, f.Write([]byte("abc")))

		v, err := f.Read()
		require.NoError(t, err)
		v[0] = 'X'

		again, err := f.Read()
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), again)
	})

	t.Run("json map", func(t *testing.T) {
		f, err := artifact.JSON[map[string]int]("counts").WithCache(cache).OpenFile(filepath.Join(dir, "counts"))
		require.NoError(t, err)
		require.NoError(t, f.Write(map[string]int{"a": 1}))

		v, err := f.Read()
		require.NoError(t, err)
		v["a"] = 99

		again, err := f.Read()
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"a": 1}, again)
	})
}

func TestNewReadCache_InvalidSize(t *testing.T) {
	_, err := artifact.NewReadCache(0)
	require.Error(t, err)
}

func TestBuiltins(t *testing.T) {
	builtins := artifact.Builtins(nil)

	exts := map[string]string{}
	for datatype, typ := range builtins {
		exts[datatype.String()] = typ.Extension()
	}

	assert.Equal(t, map[string]string{
		"int":   ".int",
		"text":  ".txt",
		"bytes": ".bin",
		"json":  ".json",
		"yaml":  ".yaml",
		"raw":   "",
	}, exts)
}
