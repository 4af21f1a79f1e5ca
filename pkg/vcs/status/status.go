// Package status exports errors produced by the vcs package and its
// implementations.
package status

import (
	"github.com/relstage/relstage/pkg/errors"
)

var (
	// ErrNotARepository indicates the target directory is not inside a work tree
	ErrNotARepository = errors.New("not inside a git repository")

	// ErrDetachedHead indicates that no branch is checked out
	ErrDetachedHead = errors.New("detached HEAD, check out a branch first")

	// ErrTagExists indicates an attempt to create a tag that is already taken
	ErrTagExists = errors.New("tag already exists")

	// ErrNoSuchTag indicates a tag that cannot be resolved to a commit
	ErrNoSuchTag = errors.New("no such tag")

	// ErrTool indicates a failure reported by the underlying vcs command
	ErrTool = errors.New("vcs command failed")
)
