package gitcli

import (
	"context"
)

// Commit stages the given paths and commits exactly those paths.
//
// The commit carries a pathspec, so anything else sitting in the index
// is left out of the release commit.
func (r *Repo) Commit(ctx context.Context, message string, paths []string) error {
	addArgs := append([]string{"add", "--"}, paths...)
	if _, err := r.git(ctx, addArgs...); err != nil {
		return err
	}
	commitArgs := append([]string{"commit", "-m", message, "--"}, paths...)
	_, err := r.git(ctx, commitArgs...)
	return err
}

// Push updates the upstream branch
func (r *Repo) Push(ctx context.Context) error {
	_, err := r.git(ctx, "push", r.remote)
	return err
}

// PushTags pushes all local tags
func (r *Repo) PushTags(ctx context.Context) error {
	_, err := r.git(ctx, "push", r.remote, "--tags")
	return err
}

// ForcePush updates the upstream branch after a history rewrite.
//
// The lease makes the push fail if the remote moved since we last
// fetched, rather than silently discarding someone else's commits.
func (r *Repo) ForcePush(ctx context.Context) error {
	_, err := r.git(ctx, "push", "--force-with-lease", r.remote)
	return err
}
