// Package mocks provides a scripted, in-memory vcs.Repo double for
// exercising release flows without a git binary.
package mocks

import (
	"context"
	"fmt"
	"strings"

	"github.com/relstage/relstage/pkg/vcs"
	"github.com/relstage/relstage/pkg/vcs/status"
)

// Repo implements vcs.Repo over scriptable state.
//
// The zero value behaves as a clean repository on branch main, with no
// tags and one configured remote. Every call is appended to Ops as
// "Method arg arg", so tests can assert on operation ordering. Calls
// observe context cancellation before touching any state, the way a
// subprocess-backed implementation would.
type Repo struct {
	Branch   string
	Detached bool
	NotARepo bool
	NoRemote bool
	Dirty    []vcs.FileStatus

	Tags    []string
	Commits map[string]vcs.Commit // tag name to the commit it points at
	Touched map[string][]string   // sha to the files the commit modifies
	Diffs   map[string][]string   // "from..to" to differing files

	// FailOn injects an error for a given method name
	FailOn map[string]error

	Ops            []string
	CommitMessages []string
	CommitPaths    [][]string
	CreatedTags    []string
	TagMessages    map[string]string
	DeletedTags    []string
	RemoteDeleted  []string
	Pushes         int
	TagPushes      int
	ForcePushes    int
	StashMarkers   []string
	PopMarkers     []string
	Dropped        [][]string

	stashed []vcs.FileStatus
}

var _ vcs.Repo = &Repo{}

func (m *Repo) record(ctx context.Context, op string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry := op
	if len(args) > 0 {
		entry += " " + strings.Join(args, " ")
	}
	m.Ops = append(m.Ops, entry)
	if err, ok := m.FailOn[op]; ok {
		return err
	}
	return nil
}

// CheckRepository honors the NotARepo flag
func (m *Repo) CheckRepository(ctx context.Context) error {
	if err := m.record(ctx, "CheckRepository"); err != nil {
		return err
	}
	if m.NotARepo {
		return status.ErrNotARepository.WrapMessage("scripted")
	}
	return nil
}

// CurrentBranch yields Branch, or "main" when unset
func (m *Repo) CurrentBranch(ctx context.Context) (string, error) {
	if err := m.record(ctx, "CurrentBranch"); err != nil {
		return "", err
	}
	if m.Detached {
		return "", status.ErrDetachedHead.WrapMessage("scripted")
	}
	if m.Branch == "" {
		return "main", nil
	}
	return m.Branch, nil
}

// IsDirty reports whether any scripted dirty entries remain
func (m *Repo) IsDirty(ctx context.Context) (bool, error) {
	if err := m.record(ctx, "IsDirty"); err != nil {
		return false, err
	}
	return len(m.Dirty) > 0, nil
}

// UncommittedFiles yields the scripted dirty entries
func (m *Repo) UncommittedFiles(ctx context.Context) ([]vcs.FileStatus, error) {
	if err := m.record(ctx, "UncommittedFiles"); err != nil {
		return nil, err
	}
	return append([]vcs.FileStatus(nil), m.Dirty...), nil
}

// ListTags yields the scripted tags
func (m *Repo) ListTags(ctx context.Context) ([]string, error) {
	if err := m.record(ctx, "ListTags"); err != nil {
		return nil, err
	}
	return append([]string(nil), m.Tags...), nil
}

// TagExists scans the scripted tags
func (m *Repo) TagExists(ctx context.Context, name string) (bool, error) {
	if err := m.record(ctx, "TagExists", name); err != nil {
		return false, err
	}
	for _, tag := range m.Tags {
		if tag == name {
			return true, nil
		}
	}
	return false, nil
}

// HasRemote honors the NoRemote flag
func (m *Repo) HasRemote(ctx context.Context) (bool, error) {
	if err := m.record(ctx, "HasRemote"); err != nil {
		return false, err
	}
	return !m.NoRemote, nil
}

// DiffNames replays the scripted diff for "from..to"
func (m *Repo) DiffNames(ctx context.Context, from, to string) ([]string, error) {
	if err := m.record(ctx, "DiffNames", from, to); err != nil {
		return nil, err
	}
	return m.Diffs[from+".."+to], nil
}

// TouchedFiles replays the scripted per-commit file list
func (m *Repo) TouchedFiles(ctx context.Context, sha string) ([]string, error) {
	if err := m.record(ctx, "TouchedFiles", sha); err != nil {
		return nil, err
	}
	return m.Touched[sha], nil
}

// ResolveTagCommit replays the scripted tag to commit mapping
func (m *Repo) ResolveTagCommit(ctx context.Context, tag string) (vcs.Commit, error) {
	if err := m.record(ctx, "ResolveTagCommit", tag); err != nil {
		return vcs.Commit{}, err
	}
	commit, ok := m.Commits[tag]
	if !ok {
		return vcs.Commit{}, status.ErrNoSuchTag.WrapMessage("%s", tag)
	}
	return commit, nil
}

// Commit records the message and paths, clearing those paths from the
// dirty set
func (m *Repo) Commit(ctx context.Context, message string, paths []string) error {
	if err := m.record(ctx, "Commit", message); err != nil {
		return err
	}
	m.CommitMessages = append(m.CommitMessages, message)
	m.CommitPaths = append(m.CommitPaths, append([]string(nil), paths...))
	var remaining []vcs.FileStatus
	for _, entry := range m.Dirty {
		committed := false
		for _, path := range paths {
			if entry.Path == path {
				committed = true
				break
			}
		}
		if !committed {
			remaining = append(remaining, entry)
		}
	}
	m.Dirty = remaining
	return nil
}

// CreateTag appends to the tag list, failing on duplicates
func (m *Repo) CreateTag(ctx context.Context, name, message string) error {
	if err := m.record(ctx, "CreateTag", name); err != nil {
		return err
	}
	for _, tag := range m.Tags {
		if tag == name {
			return status.ErrTagExists.WrapMessage("%s", name)
		}
	}
	m.Tags = append(m.Tags, name)
	m.CreatedTags = append(m.CreatedTags, name)
	if message != "" {
		if m.TagMessages == nil {
			m.TagMessages = make(map[string]string)
		}
		m.TagMessages[name] = message
	}
	return nil
}

// DeleteTag removes a tag from the scripted list
func (m *Repo) DeleteTag(ctx context.Context, name string) error {
	if err := m.record(ctx, "DeleteTag", name); err != nil {
		return err
	}
	for i, tag := range m.Tags {
		if tag == name {
			m.Tags = append(m.Tags[:i], m.Tags[i+1:]...)
			m.DeletedTags = append(m.DeletedTags, name)
			return nil
		}
	}
	return status.ErrNoSuchTag.WrapMessage("%s", name)
}

// DeleteRemoteTags records the remote deletion
func (m *Repo) DeleteRemoteTags(ctx context.Context, names []string) error {
	if err := m.record(ctx, "DeleteRemoteTags", names...); err != nil {
		return err
	}
	m.RemoteDeleted = append(m.RemoteDeleted, names...)
	return nil
}

// Push counts branch pushes
func (m *Repo) Push(ctx context.Context) error {
	if err := m.record(ctx, "Push"); err != nil {
		return err
	}
	m.Pushes++
	return nil
}

// PushTags counts tag pushes
func (m *Repo) PushTags(ctx context.Context) error {
	if err := m.record(ctx, "PushTags"); err != nil {
		return err
	}
	m.TagPushes++
	return nil
}

// ForcePush counts forced pushes
func (m *Repo) ForcePush(ctx context.Context) error {
	if err := m.record(ctx, "ForcePush"); err != nil {
		return err
	}
	m.ForcePushes++
	return nil
}

// StashSave moves the dirty set aside under the marker
func (m *Repo) StashSave(ctx context.Context, marker string) (bool, error) {
	if err := m.record(ctx, "StashSave", marker); err != nil {
		return false, err
	}
	if len(m.Dirty) == 0 {
		return false, nil
	}
	m.stashed = m.Dirty
	m.Dirty = nil
	m.StashMarkers = append(m.StashMarkers, marker)
	return true, nil
}

// StashPop restores the dirty set stashed under the marker
func (m *Repo) StashPop(ctx context.Context, marker string) error {
	if err := m.record(ctx, "StashPop", marker); err != nil {
		return err
	}
	for _, stashed := range m.StashMarkers {
		if stashed == marker {
			m.Dirty = append(m.Dirty, m.stashed...)
			m.stashed = nil
			m.PopMarkers = append(m.PopMarkers, marker)
			return nil
		}
	}
	return status.ErrTool.Wrap(fmt.Errorf("no stash entry carries marker %q", marker))
}

// DropCommits records the dropped commit set
func (m *Repo) DropCommits(ctx context.Context, commits []string) error {
	if err := m.record(ctx, "DropCommits", commits...); err != nil {
		return err
	}
	m.Dropped = append(m.Dropped, append([]string(nil), commits...))
	return nil
}
