// Package gitcli implements vcs.Repo by driving the git command line.
//
// Every operation shells out to git with the work tree as current
// directory. Failures carry the command line and whatever git printed
// on stderr.
package gitcli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/relstage/relstage/pkg/vcs"
	"github.com/relstage/relstage/pkg/vcs/status"
)

const defaultRemote = "origin"

// Repo drives git for a single work tree.
type Repo struct {
	dir    string
	remote string
	binary string
	l      *zap.Logger
	run    runner
}

// runner executes one git invocation and yields its standard output
type runner func(ctx context.Context, dir, binary string, env []string, args ...string) (string, error)

var _ vcs.Repo = &Repo{}

// New builds a git backed repository handle rooted at dir
func New(dir string, opts ...Option) *Repo {
	r := &Repo{
		dir:    dir,
		remote: defaultRemote,
		binary: "git",
		l:      zap.NewNop(),
		run:    execRun,
	}
	for _, apply := range opts {
		apply(r)
	}
	return r
}

func execRun(ctx context.Context, dir, binary string, env []string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		return "", status.ErrTool.Wrap(fmt.Errorf("%s %s: %w: %s",
			binary, strings.Join(args, " "), err, detail))
	}
	return stdout.String(), nil
}

func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	r.l.Debug("vcs command", zap.Strings("args", args))
	return r.run(ctx, r.dir, r.binary, nil, args...)
}

func (r *Repo) gitEnv(ctx context.Context, env []string, args ...string) (string, error) {
	r.l.Debug("vcs command", zap.Strings("args", args), zap.Strings("env", env))
	return r.run(ctx, r.dir, r.binary, env, args...)
}

// CheckRepository verifies the target directory is inside a work tree
func (r *Repo) CheckRepository(ctx context.Context) error {
	out, err := r.git(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		return status.ErrNotARepository.Wrap(err)
	}
	if strings.TrimSpace(out) != "true" {
		return status.ErrNotARepository.WrapMessage("%s", r.dir)
	}
	return nil
}

// CurrentBranch names the checked out branch, failing on a detached HEAD
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return "", status.ErrDetachedHead.Wrap(err)
	}
	return strings.TrimSpace(out), nil
}

// IsDirty tells whether the work tree carries staged or unstaged changes
func (r *Repo) IsDirty(ctx context.Context) (bool, error) {
	entries, err := r.UncommittedFiles(ctx)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

// UncommittedFiles lists the uncommitted state of the work tree
func (r *Repo) UncommittedFiles(ctx context.Context) ([]vcs.FileStatus, error) {
	out, err := r.git(ctx, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	var entries []vcs.FileStatus
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		path := strings.TrimSpace(line[3:])
		// renames show as "old -> new": keep the current name
		if i := strings.LastIndex(path, " -> "); i >= 0 {
			path = path[i+len(" -> "):]
		}
		entries = append(entries, vcs.FileStatus{
			Path: unquotePath(path),
			Code: line[:2],
		})
	}
	return entries, nil
}

// HasRemote tells whether at least one remote is configured
func (r *Repo) HasRemote(ctx context.Context) (bool, error) {
	out, err := r.git(ctx, "remote")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, unquotePath(trimmed))
		}
	}
	return lines
}

// unquotePath undoes the C style quoting git applies to unusual paths
func unquotePath(p string) string {
	if strings.HasPrefix(p, `"`) {
		if unquoted, err := strconv.Unquote(p); err == nil {
			return unquoted
		}
	}
	return p
}
