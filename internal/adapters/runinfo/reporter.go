// Package runinfo logs where and from which sources a pipeline runs.
package runinfo

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.trai.ch/fileflow/internal/adapters/fs"
	"go.trai.ch/fileflow/internal/core/domain"
	"go.trai.ch/fileflow/internal/core/ports"
)

// TimeFormat is the layout used for every timestamp in the report.
const TimeFormat = "2006-01-02 15:04:05"

var _ ports.RunInfo = (*Reporter)(nil)

// CommitFunc returns the latest commit of the repository that contains dir.
type CommitFunc func(ctx context.Context, dir string) (Commit, error)

// Reporter implements ports.RunInfo on top of the logger.
type Reporter struct {
	logger ports.Logger
	walker *fs.Walker
	commit CommitFunc
	now    func() time.Time
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithClock replaces the clock used for the current time.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		r.now = now
	}
}

// WithCommitFunc replaces the git lookup.
func WithCommitFunc(fn CommitFunc) Option {
	return func(r *Reporter) {
		r.commit = fn
	}
}

// NewReporter creates a new Reporter.
func NewReporter(logger ports.Logger, walker *fs.Walker, opts ...Option) *Reporter {
	r := &Reporter{
		logger: logger,
		walker: walker,
		commit: headCommit,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report logs the loaded configuration, the newest source file below the pipeline directory,
// the latest git commit and the current time. Nothing is logged when run info is off.
func (r *Reporter) Report(ctx context.Context, pipeline *domain.Pipeline) {
	cfg := pipeline.Config
	if cfg.RunInfo == domain.RunInfoOff {
		return
	}
	full := cfg.RunInfo == domain.RunInfoFull

	r.logger.Info(fmt.Sprintf("Loaded config: output_root=%s run_info=%s", cfg.OutputRoot, cfg.RunInfo))

	r.reportSources(pipeline.Dir, cfg.OutputRoot, full)
	r.reportCommit(ctx, pipeline.Dir, full)

	r.logger.Info("Current time: " + r.now().Format(TimeFormat))
}

func (r *Reporter) reportSources(dir, outputRoot string, full bool) {
	path, modTime, err := r.walker.NewestFile(dir, []string{outputRoot})
	if err != nil {
		r.logger.Error(err)
		return
	}
	if path == "" {
		r.logger.Info("No source files found in " + dir)
		return
	}

	rel, err := filepath.Rel(dir, path)
	if err != nil {
		rel = path
	}

	stamp := fmt.Sprintf("%s (%s)", modTime.Local().Format(TimeFormat), rel)
	if full {
		r.logger.Info(fmt.Sprintf("Source files in %s last modified at %s", dir, stamp))
		return
	}
	r.logger.Info("Source last modified at " + stamp)
}

func (r *Reporter) reportCommit(ctx context.Context, dir string, full bool) {
	commit, err := r.commit(ctx, dir)
	if err != nil {
		if full {
			r.logger.Warn(fmt.Sprintf("Could not find git repo that %s is part of. Reason: %v", dir, err))
		}
		return
	}

	stamp := commit.Time.Local().Format(TimeFormat)
	if full {
		r.logger.Info(fmt.Sprintf("%s is part of git repo at %s, with latest commit at %s (%q, %s)",
			dir, commit.Repo, stamp, commit.Subject, commit.ShortHash()))
		return
	}
	r.logger.Info(fmt.Sprintf("Last git commit at %s (%s)", stamp, commit.ShortHash()))
}
