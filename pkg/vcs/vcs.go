// Package vcs defines the narrow view of a version control system
// needed to stage a release: tags, name-only diffs, commits, pushes
// and a couple of history editing primitives.
//
// The production implementation drives the git command line (see the
// gitcli sub-package). Tests run against the scripted double from the
// mocks sub-package.
package vcs

import (
	"context"
)

// Commit identifies a single commit.
type Commit struct {
	SHA     string `json:"sha" yaml:"sha"`
	Subject string `json:"subject,omitempty" yaml:"subject,omitempty"`
	_       struct{}
}

// FileStatus is one entry of the uncommitted state of the work tree.
type FileStatus struct {
	// Path relative to the repository root
	Path string `json:"path" yaml:"path"`

	// Code is the two letter short status, e.g. " M" or "??"
	Code string `json:"code" yaml:"code"`

	_ struct{}
}

// Repo exposes the repository operations a release needs.
//
// Methods returning lists never fail on empty results: a repository
// without tags yields an empty slice, not an error.
type Repo interface {
	// CheckRepository verifies the target directory is inside a work tree
	CheckRepository(context.Context) error

	// CurrentBranch names the checked out branch, failing on a detached HEAD
	CurrentBranch(context.Context) (string, error)

	// IsDirty tells whether the work tree carries staged or unstaged changes
	IsDirty(context.Context) (bool, error)

	// UncommittedFiles lists the uncommitted state of the work tree
	UncommittedFiles(context.Context) ([]FileStatus, error)

	// ListTags yields all tag names, version sorted in ascending order
	ListTags(context.Context) ([]string, error)

	// TagExists tells whether a tag name is already taken
	TagExists(context.Context, string) (bool, error)

	// HasRemote tells whether at least one remote is configured
	HasRemote(context.Context) (bool, error)

	// DiffNames lists the paths that differ between two revisions
	DiffNames(ctx context.Context, from, to string) ([]string, error)

	// TouchedFiles lists the paths modified by a single commit
	TouchedFiles(ctx context.Context, sha string) ([]string, error)

	// ResolveTagCommit peels a tag down to the commit it points at
	ResolveTagCommit(ctx context.Context, tag string) (Commit, error)

	// Commit stages the given paths and commits exactly those paths
	Commit(ctx context.Context, message string, paths []string) error

	// CreateTag creates a tag on HEAD, annotated when message is not empty
	CreateTag(ctx context.Context, name, message string) error

	// DeleteTag removes a local tag
	DeleteTag(ctx context.Context, name string) error

	// DeleteRemoteTags removes tags from the remote in a single push
	DeleteRemoteTags(ctx context.Context, names []string) error

	// Push updates the upstream branch
	Push(context.Context) error

	// PushTags pushes all local tags
	PushTags(context.Context) error

	// ForcePush updates the upstream branch after a history rewrite,
	// refusing to clobber work it has not seen (force-with-lease)
	ForcePush(context.Context) error

	// StashSave stashes work tree changes under a marker message,
	// reporting whether anything was actually stashed
	StashSave(ctx context.Context, marker string) (bool, error)

	// StashPop restores the stash entry carrying the marker
	StashPop(ctx context.Context, marker string) error

	// DropCommits removes the given commits from the current branch
	// history in one atomic rebase. Commits must be ordered oldest
	// first. The rebase is aborted on failure, leaving history as it
	// was.
	DropCommits(ctx context.Context, commits []string) error
}
