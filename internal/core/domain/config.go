package domain

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// RunInfoLevel controls how much run information is logged at startup.
type RunInfoLevel string

const (
	// RunInfoOff disables run information logging.
	RunInfoOff RunInfoLevel = "off"
	// RunInfoShort logs the configuration, source modification time and latest commit.
	RunInfoShort RunInfoLevel = "short"
	// RunInfoFull additionally names the directories and repository inspected.
	RunInfoFull RunInfoLevel = "full"
)

// DefaultOutputRoot is used when no configuration names an output root.
const DefaultOutputRoot = "out"

// Config is the configuration consumed by the pipeline engine.
type Config struct {
	// OutputRoot is the directory under which task artifacts are stored.
	OutputRoot string
	// RunInfo is the run information logging level.
	RunInfo RunInfoLevel
}

// DefaultConfig returns the configuration used when no pipeline file is found.
func DefaultConfig() Config {
	return Config{
		OutputRoot: DefaultOutputRoot,
		RunInfo:    RunInfoShort,
	}
}

// Normalize expands a leading "~" in OutputRoot, makes it absolute and validates the result.
func (c Config) Normalize() (Config, error) {
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	root := c.OutputRoot
	if root == "~" || strings.HasPrefix(root, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, zerr.With(zerr.Wrap(Because(ErrConfig, err), "failed to expand home directory"), "output_root", root)
		}
		root = filepath.Join(home, strings.TrimPrefix(root, "~"))
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return Config{}, zerr.With(zerr.Wrap(Because(ErrConfig, err), "failed to resolve output root"), "output_root", root)
	}

	c.OutputRoot = abs
	if c.RunInfo == "" {
		c.RunInfo = RunInfoShort
	}
	return c, nil
}

// Validate checks that every setting holds a usable value.
func (c Config) Validate() error {
	if strings.TrimSpace(c.OutputRoot) == "" {
		return zerr.With(zerr.Wrap(ErrConfig, "output root must not be empty"), "setting", "output_root")
	}
	switch c.RunInfo {
	case "", RunInfoOff, RunInfoShort, RunInfoFull:
		return nil
	default:
		return zerr.With(zerr.Wrap(ErrConfig, "unknown run info level"), "run_info", string(c.RunInfo))
	}
}
