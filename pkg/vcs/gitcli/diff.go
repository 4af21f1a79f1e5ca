package gitcli

import (
	"context"
)

// DiffNames lists the paths that differ between two revisions
func (r *Repo) DiffNames(ctx context.Context, from, to string) ([]string, error) {
	out, err := r.git(ctx, "diff", "--name-only", from+".."+to)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// TouchedFiles lists the paths modified by a single commit
func (r *Repo) TouchedFiles(ctx context.Context, sha string) ([]string, error) {
	out, err := r.git(ctx, "diff-tree", "--no-commit-id", "--name-only", "-r", sha)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}
