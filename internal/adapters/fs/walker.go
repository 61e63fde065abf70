// Package fs provides file system adapters for walking source trees and resolving inputs.
package fs

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/zerr"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every file below root, skipping .git, .jj and ignored entries.
// An ignore is either a base name pattern (filepath.Match) or an absolute directory path.
// Yielded paths include root as prefix.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable entries are skipped rather than aborting the walk.
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if path != root {
				if skip, action := w.shouldSkip(path, d, ignores); skip {
					return action
				}
			}

			if d.IsDir() {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}

			return nil
		})
	}
}

// NewestFile returns the most recently modified file below root and its modification time.
// The zero time is returned when no file is found.
func (w *Walker) NewestFile(root string, ignores []string) (string, time.Time, error) {
	var (
		newest  string
		modTime time.Time
	)
	for path := range w.WalkFiles(root, ignores) {
		info, err := statFile(path)
		if err != nil {
			return "", time.Time{}, err
		}
		if info.ModTime().After(modTime) {
			newest = path
			modTime = info.ModTime()
		}
	}
	return newest, modTime, nil
}

func statFile(path string) (fs.FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}
	return info, nil
}

// shouldSkip reports whether an entry is excluded and the action WalkDir should take.
func (w *Walker) shouldSkip(path string, d fs.DirEntry, ignores []string) (bool, error) {
	name := d.Name()

	if d.IsDir() && (name == ".git" || name == ".jj") {
		return true, filepath.SkipDir
	}

	for _, ignore := range ignores {
		var matched bool
		if filepath.IsAbs(ignore) {
			matched = filepath.Clean(ignore) == path
		} else {
			matched, _ = filepath.Match(ignore, name)
		}
		if !matched {
			continue
		}
		if d.IsDir() {
			return true, filepath.SkipDir
		}
		return true, nil
	}

	return false, nil
}
