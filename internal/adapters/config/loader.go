// Package config provides the pipeline file loader for fileflow.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"go.trai.ch/fileflow/internal/core/domain"
	"go.trai.ch/fileflow/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the pipeline file version understood by the loader.
const SupportedVersion = "1"

// Environment variables that override settings of the pipeline file.
const (
	EnvOutputRoot = "FILEFLOW_OUTPUT_ROOT"
	EnvRunInfo    = "FILEFLOW_RUN_INFO"
)

var validTaskNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]*$`)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger   ports.Logger
	Filename string
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, Filename: domain.PipelineFileName}
}

// Load reads the pipeline file in dir. Without one, it returns the default configuration
// with environment overrides applied and found=false.
func (l *Loader) Load(dir string) (*domain.Pipeline, bool, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, false, zerr.With(zerr.Wrap(err, "failed to resolve directory"), "dir", dir)
	}

	path := filepath.Join(dir, l.filename())
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		p, err := l.build(dir, &Pipelinefile{})
		if err != nil {
			return nil, false, err
		}
		return p, false, nil
	}

	p, err := l.LoadFile(path)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// LoadFile loads the pipeline file at path.
func (l *Loader) LoadFile(path string) (*domain.Pipeline, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve pipeline file"), "path", path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if errors.Is(err, fs.ErrNotExist) {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "pipeline file missing"), "path", path)
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.Because(domain.ErrConfig, err), "failed to read pipeline file"), "path", path)
	}

	var file Pipelinefile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.Because(domain.ErrConfig, err), "failed to parse pipeline file"), "path", path)
	}

	if file.Version != "" && file.Version != SupportedVersion {
		l.warn(fmt.Sprintf("%s declares version %q, expected %q", filepath.Base(path), file.Version, SupportedVersion))
	}

	p, err := l.build(filepath.Dir(path), &file)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return p, nil
}

func (l *Loader) warn(msg string) {
	if l.Logger != nil {
		l.Logger.Warn(msg)
	}
}

func (l *Loader) filename() string {
	if l.Filename == "" {
		return domain.PipelineFileName
	}
	return l.Filename
}

func (l *Loader) build(dir string, file *Pipelinefile) (*domain.Pipeline, error) {
	env, err := readDotenv(dir)
	if err != nil {
		return nil, err
	}

	cfg := domain.DefaultConfig()
	if file.OutputRoot != "" {
		cfg.OutputRoot = file.OutputRoot
	}
	if file.RunInfo != "" {
		cfg.RunInfo = domain.RunInfoLevel(strings.ToLower(file.RunInfo))
	}
	if v := lookup(EnvOutputRoot, env); v != "" {
		cfg.OutputRoot = v
	}
	if v := lookup(EnvRunInfo, env); v != "" {
		cfg.RunInfo = domain.RunInfoLevel(strings.ToLower(v))
	}
	cfg.OutputRoot = resolvePath(dir, cfg.OutputRoot)

	cfg, err = cfg.Normalize()
	if err != nil {
		return nil, err
	}

	tasks, err := l.buildTasks(dir, file.Tasks)
	if err != nil {
		return nil, err
	}

	return &domain.Pipeline{
		Config: cfg,
		Dir:    dir,
		Env:    env,
		Tasks:  tasks,
	}, nil
}

func (l *Loader) buildTasks(dir string, list TaskList) ([]domain.CommandTask, error) {
	tasks := make([]domain.CommandTask, 0, len(list))
	declared := make(map[string]bool, len(list))

	for _, named := range list {
		name, dto := named.Name, named.Task
		if err := validateTaskName(name); err != nil {
			return nil, err
		}
		if len(dto.Cmd) == 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfig, "task has no command"), "task", name)
		}

		inputs := make([]string, 0, len(dto.Input))
		for _, in := range dto.Input {
			ref, isRef := strings.CutPrefix(in, domain.TaskRefPrefix)
			switch {
			case !isRef:
				inputs = append(inputs, resolvePath(dir, in))
			case !declared[ref]:
				err := zerr.With(zerr.Wrap(domain.ErrConfig, "input refers to a task that is not declared before it"), "task", name)
				return nil, zerr.With(err, "reference", in)
			default:
				inputs = append(inputs, in)
			}
		}

		output := domain.DefaultCommandOutput
		if dto.Output != "" {
			output = domain.DatatypeName(dto.Output)
		}

		tasks = append(tasks, domain.CommandTask{
			Name:        name,
			Command:     dto.Cmd,
			Inputs:      inputs,
			Output:      output,
			Params:      maps.Clone(dto.Params),
			Environment: maps.Clone(dto.Environment),
			WorkingDir:  resolvePath(dir, dto.WorkingDir),
		})
		declared[name] = true
	}
	return tasks, nil
}

func validateTaskName(name string) error {
	if !validTaskNameRegex.MatchString(name) {
		return zerr.With(zerr.Wrap(domain.ErrConfig, "invalid task name"), "task", name)
	}
	return nil
}

// readDotenv reads the dotenv file in dir without touching the process environment.
func readDotenv(dir string) (map[string]string, error) {
	path := filepath.Join(dir, domain.EnvFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}

	env, err := godotenv.Read(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.Because(domain.ErrConfig, err), "failed to read dotenv file"), "path", path)
	}
	return env, nil
}

// lookup prefers the process environment over the dotenv file.
func lookup(key string, dotenv map[string]string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return dotenv[key]
}

// resolvePath anchors a relative path at dir. Paths starting with "~" are left for
// domain.Config.Normalize to expand.
func resolvePath(dir, p string) string {
	switch {
	case p == "":
		return dir
	case filepath.IsAbs(p), p == "~", strings.HasPrefix(p, "~/"):
		return p
	default:
		return filepath.Join(dir, p)
	}
}
