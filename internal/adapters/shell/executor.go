// Package shell provides the shell executor adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/fileflow/internal/core/domain"
	"go.trai.ch/fileflow/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

var _ ports.Executor = (*Executor)(nil)

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the task's command. It merges environments with the following priority
// (low to high):
// 1. os.Environ() (System base)
// 2. task.Environment (User-defined overrides)
// 3. env (Artifact bindings)
//
// Every complete output line is logged; stdout and stderr additionally receive the raw streams.
func (e *Executor) Execute(ctx context.Context, task *domain.CommandTask, env []string, stdout, stderr io.Writer) error {
	if len(task.Command) == 0 {
		return nil
	}

	name := task.Command[0]
	args := task.Command[1:]

	cmdEnv := resolveEnvironment(os.Environ(), task.Environment, env)

	// Resolve the executable against the PATH of the command environment.
	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // user provided command

	// exec.CommandContext sets Args[0] to the executable path; keep the name as invoked.
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}

	if task.WorkingDir != "" {
		cmd.Dir = task.WorkingDir
	}
	cmd.Env = cmdEnv

	outLog := &logWriter{logger: e.logger, level: domain.LogLevelInfo}
	errLog := &logWriter{logger: e.logger, level: domain.LogLevelError}
	cmd.Stdout = tee(stdout, outLog)
	cmd.Stderr = tee(stderr, errLog)

	err := cmd.Run()
	outLog.Flush()
	errLog.Flush()

	if err != nil {
		exitCode := -1 // Unknown or signal
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		err = zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
		return zerr.With(err, "command", name)
	}

	return nil
}

func tee(w io.Writer, log io.Writer) io.Writer {
	if w == nil {
		return log
	}
	return io.MultiWriter(w, log)
}

// logWriter forwards complete lines to the logger and buffers partial ones.
type logWriter struct {
	logger ports.Logger
	level  domain.LogLevel

	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Incomplete line; keep it for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emit(strings.TrimSuffix(line, "\n"))
	}
	return len(p), nil
}

// Flush logs a trailing line that did not end in a newline.
func (w *logWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *logWriter) emit(line string) {
	if w.level >= domain.LogLevelError {
		w.logger.Error(zerr.New(line))
		return
	}
	w.logger.Info(line)
}

// resolveEnvironment merges environment variables; later sources win.
func resolveEnvironment(sysEnv []string, taskEnv map[string]string, bindings []string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}

	for k, v := range taskEnv {
		envMap[k] = v
	}

	for _, entry := range bindings {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
