package gitcli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/relstage/relstage/pkg/vcs/status"
)

// StashSave stashes work tree changes under a marker message,
// reporting whether anything was actually stashed. A clean tree is
// left alone.
func (r *Repo) StashSave(ctx context.Context, marker string) (bool, error) {
	dirty, err := r.IsDirty(ctx)
	if err != nil || !dirty {
		return false, err
	}
	if _, err = r.git(ctx, "stash", "push", "-m", marker); err != nil {
		return false, err
	}
	return true, nil
}

// StashPop restores the stash entry carrying the marker.
//
// The entry is looked up by marker rather than assumed to sit on top,
// so stashes pushed in the meantime do not get popped by mistake.
func (r *Repo) StashPop(ctx context.Context, marker string) error {
	out, err := r.git(ctx, "stash", "list", "--format=%gd %gs")
	if err != nil {
		return err
	}
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, marker) {
			continue
		}
		ref, _, found := strings.Cut(line, " ")
		if !found {
			continue
		}
		_, err = r.git(ctx, "stash", "pop", ref)
		return err
	}
	return status.ErrTool.WrapMessage("no stash entry carries marker %q", marker)
}

// DropCommits removes the given commits from the current branch
// history in one interactive rebase driven by a generated todo list.
//
// The todo spans the whole range from the oldest commit to drop up to
// HEAD, picking everything that is not dropped, so the surrounding
// commits keep their order. On failure the rebase is aborted, leaving
// history as it was.
func (r *Repo) DropCommits(ctx context.Context, commits []string) error {
	if len(commits) == 0 {
		return nil
	}
	base := commits[0] + "^"
	out, err := r.git(ctx, "rev-list", "--reverse", base+"..HEAD")
	if err != nil {
		return err
	}
	targets := make(map[string]struct{}, len(commits))
	for _, sha := range commits {
		targets[sha] = struct{}{}
	}

	var todo strings.Builder
	matched := 0
	for _, sha := range splitLines(out) {
		if _, drop := targets[sha]; drop {
			fmt.Fprintf(&todo, "drop %s\n", sha)
			matched++
		} else {
			fmt.Fprintf(&todo, "pick %s\n", sha)
		}
	}
	if matched != len(commits) {
		return status.ErrTool.WrapMessage("%d of %d commits to drop are not on the current branch",
			len(commits)-matched, len(commits))
	}

	script, err := os.CreateTemp("", "relstage-rebase-*.todo")
	if err != nil {
		return status.ErrTool.Wrap(err)
	}
	defer func() { _ = os.Remove(script.Name()) }()
	if _, err = script.WriteString(todo.String()); err != nil {
		_ = script.Close()
		return status.ErrTool.Wrap(err)
	}
	if err = script.Close(); err != nil {
		return status.ErrTool.Wrap(err)
	}

	env := []string{fmt.Sprintf("GIT_SEQUENCE_EDITOR=cp %q", script.Name())}
	if _, err = r.gitEnv(ctx, env, "rebase", "-i", base); err != nil {
		// abort even when the surrounding context got canceled, or the
		// repository stays stuck mid-rebase
		if _, abortErr := r.git(context.WithoutCancel(ctx), "rebase", "--abort"); abortErr != nil {
			r.l.Debug("rebase abort failed", zap.Error(abortErr))
		}
		return err
	}
	return nil
}
