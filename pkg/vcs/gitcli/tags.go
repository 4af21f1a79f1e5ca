package gitcli

import (
	"context"
	"fmt"
	"strings"

	"github.com/relstage/relstage/pkg/vcs"
	"github.com/relstage/relstage/pkg/vcs/status"
)

// ListTags yields all tag names, version sorted in ascending order
func (r *Repo) ListTags(ctx context.Context) ([]string, error) {
	out, err := r.git(ctx, "tag", "--list", "--sort=version:refname")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// TagExists tells whether a tag name is already taken
func (r *Repo) TagExists(ctx context.Context, name string) (bool, error) {
	out, err := r.git(ctx, "tag", "--list", name)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// ResolveTagCommit peels a tag down to the commit it points at
func (r *Repo) ResolveTagCommit(ctx context.Context, tag string) (vcs.Commit, error) {
	out, err := r.git(ctx, "rev-list", "-n", "1", tag)
	if err != nil {
		return vcs.Commit{}, status.ErrNoSuchTag.Wrap(fmt.Errorf("%s: %w", tag, err))
	}
	sha := strings.TrimSpace(out)
	subject, err := r.git(ctx, "log", "-1", "--format=%s", sha)
	if err != nil {
		return vcs.Commit{}, err
	}
	return vcs.Commit{SHA: sha, Subject: strings.TrimSpace(subject)}, nil
}

// CreateTag creates a tag on HEAD, annotated when message is not empty
func (r *Repo) CreateTag(ctx context.Context, name, message string) error {
	var err error
	if message != "" {
		_, err = r.git(ctx, "tag", "-a", name, "-m", message)
	} else {
		_, err = r.git(ctx, "tag", name)
	}
	if err != nil && strings.Contains(err.Error(), "already exists") {
		return status.ErrTagExists.Wrap(err)
	}
	return err
}

// DeleteTag removes a local tag
func (r *Repo) DeleteTag(ctx context.Context, name string) error {
	_, err := r.git(ctx, "tag", "--delete", name)
	return err
}

// DeleteRemoteTags removes tags from the remote in a single push
func (r *Repo) DeleteRemoteTags(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	args := append([]string{"push", "--delete", r.remote}, names...)
	_, err := r.git(ctx, args...)
	return err
}
