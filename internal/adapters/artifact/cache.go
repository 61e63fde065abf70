package artifact

import (
	"bytes"
	"io/fs"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/zerr"
)

// DefaultReadCacheSize is the number of files kept by NewReadCache callers that have no preference.
const DefaultReadCacheSize = 256

// ReadCache memoizes artifact file contents keyed by path.
// An entry is only served while the file's modification time and size are unchanged.
// Every hit hands out a private copy, so callers may modify what Read returns.
// A nil *ReadCache is valid and caches nothing.
type ReadCache struct {
	entries *lru.Cache[string, cacheEntry]
}

type cacheEntry struct {
	modTime time.Time
	size    int64
	data    []byte
}

// NewReadCache creates a cache holding the contents of at most size files.
func NewReadCache(size int) (*ReadCache, error) {
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create read cache"), "size", size)
	}
	return &ReadCache{entries: entries}, nil
}

// Len returns the number of cached files.
func (c *ReadCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

func (c *ReadCache) get(path string, info fs.FileInfo) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	entry, ok := c.entries.Get(path)
	if !ok {
		return nil, false
	}
	if !entry.modTime.Equal(info.ModTime()) || entry.size != info.Size() {
		c.entries.Remove(path)
		return nil, false
	}
	return bytes.Clone(entry.data), true
}

func (c *ReadCache) put(path string, info fs.FileInfo, data []byte) {
	if c == nil {
		return
	}
	c.entries.Add(path, cacheEntry{modTime: info.ModTime(), size: info.Size(), data: bytes.Clone(data)})
}

func (c *ReadCache) invalidate(path string) {
	if c == nil {
		return
	}
	c.entries.Remove(path)
}
