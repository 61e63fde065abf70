package runinfo

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// Commit describes the latest commit of a git repository.
type Commit struct {
	// Repo is the top-level directory of the working tree.
	Repo string
	// Hash is the full commit hash.
	Hash string
	// Time is the committer date.
	Time time.Time
	// Subject is the first line of the commit message.
	Subject string
}

// ShortHash returns the abbreviated commit hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// headCommit reads the latest commit of the repository containing dir using the git CLI.
func headCommit(ctx context.Context, dir string) (Commit, error) {
	top, err := git(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return Commit{}, err
	}

	out, err := git(ctx, dir, "log", "-1", "--format=%H%x00%cI%x00%s")
	if err != nil {
		return Commit{}, err
	}

	fields := strings.SplitN(out, "\x00", 3)
	if len(fields) != 3 {
		return Commit{}, zerr.With(zerr.New("unexpected git log output"), "output", out)
	}

	committed, err := time.Parse(time.RFC3339, fields[1])
	if err != nil {
		return Commit{}, zerr.Wrap(err, "failed to parse commit time")
	}

	return Commit{
		Repo:    top,
		Hash:    fields[0],
		Time:    committed,
		Subject: fields[2],
	}, nil
}

func git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		err = zerr.Wrap(err, "git command failed")
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = zerr.With(err, "stderr", msg)
		}
		return "", zerr.With(err, "args", strings.Join(args, " "))
	}
	return strings.TrimSpace(string(out)), nil
}
