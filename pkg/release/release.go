// Package release drives a version bump end to end: it resolves the
// next version from the declaration file, optionally retires the
// pre-release bump commits of the finished series, rewrites the file,
// then commits, tags and pushes the outcome.
//
// The work proceeds as a small state machine (see Step). Everything up
// to and including CheckingHistory is read only. Rewriting is the only
// step with automatic rollback. From Writing on, failures surface as
// ErrPartial naming the step that broke, so a clean abort can be told
// apart from a repository left mid-flight.
package release

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/relstage/relstage/internal/rand"
	"github.com/relstage/relstage/pkg/manifest"
	"github.com/relstage/relstage/pkg/release/status"
	"github.com/relstage/relstage/pkg/vcs"
	vcsstatus "github.com/relstage/relstage/pkg/vcs/status"
	"github.com/relstage/relstage/pkg/version"
	versionstatus "github.com/relstage/relstage/pkg/version/status"
)

const (
	defaultCommitMessage = "Bump version to {new}"

	stashMarkerLength = 8
)

// Settings gathers the tunables of a release operation. The zero value
// targets the current directory, auto-detects the version declaration
// file and the tag prefix, keeps pre-release history and pushes the
// outcome.
type Settings struct {
	// Dir is the repository root. Empty means the current directory.
	Dir string

	// Manifest points at the version declaration file, relative to Dir.
	// Empty means auto-detection.
	Manifest string

	// TagPrefix overrides tag prefix detection, e.g. "v".
	TagPrefix string

	// CommitMessage overrides the generated bump commit message. The
	// placeholders {current} and {new} expand to the version strings.
	CommitMessage string

	// TagMessage annotates the release tag, with the same placeholders
	// as CommitMessage. Empty creates a lightweight tag.
	TagMessage string

	// DropPrereleases asks for the pre-release bump commits of the
	// series to be dropped from history when the bump finalizes it.
	DropPrereleases bool

	// SkipPush leaves the remote alone.
	SkipPush bool
}

// Operation carries out a version bump against one repository and its
// version declaration file.
type Operation struct {
	repo     vcs.Repo
	fs       afero.Fs
	l        *zap.Logger
	confirm  ConfirmFunc
	observe  StepObserver
	settings Settings
	kind     version.Kind
	explicit *version.Version
}

// New builds a release operation against repo. Without options it
// resolves a patch bump with the zero value of Settings.
func New(repo vcs.Repo, opts ...Option) *Operation {
	op := &Operation{
		repo:     repo,
		fs:       afero.NewOsFs(),
		l:        zap.NewNop(),
		confirm:  func(string) bool { return false },
		observe:  func(Step) {},
		settings: Settings{Dir: "."},
		kind:     version.KindPatch,
	}
	for _, apply := range opts {
		apply(op)
	}
	return op
}

// Run executes the bump.
//
// Mutations begin after CheckingHistory: earlier failures leave the
// repository untouched and surface as plain errors. A failed history
// rewrite aborts the underlying rebase and restores any stash before
// reporting. Later failures wrap ErrPartial, with Result.LastStep
// naming the step that broke and the Result fields reporting what had
// already been done.
func (op *Operation) Run(ctx context.Context) (Result, error) {
	var result Result

	op.step(&result, StepValidating)
	file, err := op.validate(ctx, &result)
	if err != nil {
		return result, err
	}

	op.step(&result, StepResolving)
	tags, prefix, err := op.resolve(ctx, &result)
	if err != nil {
		return result, err
	}

	if op.settings.DropPrereleases {
		switch {
		case !result.Previous.IsPrerelease():
			op.l.Warn("pre-release cleanup requested but the current version is no pre-release",
				zap.Stringer("version", result.Previous))
		case result.Next.IsPrerelease():
			op.l.Warn("pre-release cleanup requested but the bump does not finalize the series",
				zap.Stringer("next", result.Next))
		default:
			op.step(&result, StepCheckingHistory)
			plan, err := CheckHistory(ctx, op.repo, result.Previous, prefix, result.Manifest, tags)
			if err != nil {
				return result, err
			}
			if op.confirm(dropPrompt(result.Branch, plan)) {
				op.step(&result, StepRewriting)
				if err := op.rewriteHistory(ctx, &result, plan); err != nil {
					return result, err
				}
			} else {
				op.l.Info("history rewrite declined, keeping pre-release bump commits")
			}
		}
	}

	op.step(&result, StepWriting)
	if err := file.Rewrite(result.Next); err != nil {
		return result, op.partial(&result, err)
	}

	op.step(&result, StepCommitting)
	if err := op.commitBump(ctx, &result); err != nil {
		return result, op.partial(&result, err)
	}

	op.step(&result, StepCleaning)
	if err := op.cleanTags(ctx, &result, tags, prefix); err != nil {
		return result, err
	}

	op.step(&result, StepTagging)
	if err := op.repo.CreateTag(ctx, result.Tag, renderMessage(op.settings.TagMessage, &result)); err != nil {
		return result, op.partial(&result, err)
	}

	op.step(&result, StepPushing)
	if err := op.push(ctx, &result); err != nil {
		return result, err
	}

	op.step(&result, StepDone)
	return result, nil
}

func (op *Operation) step(result *Result, step Step) {
	result.LastStep = step
	op.observe(step)
	op.l.Debug("step", zap.Stringer("state", step))
}

func (op *Operation) partial(result *Result, err error) error {
	return status.ErrPartial.Wrap(fmt.Errorf("%s: %w", result.LastStep, err))
}

// validate checks the repository and loads the version declaration
// file, recording branch, manifest path and current version.
func (op *Operation) validate(ctx context.Context, result *Result) (*manifest.File, error) {
	if err := op.repo.CheckRepository(ctx); err != nil {
		return nil, err
	}
	branch, err := op.repo.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}
	result.Branch = branch

	var file *manifest.File
	if op.settings.Manifest != "" {
		path := op.settings.Manifest
		if !filepath.IsAbs(path) {
			path = filepath.Join(op.settings.Dir, path)
		}
		file, err = manifest.Load(op.fs, path)
	} else {
		file, err = manifest.Detect(op.fs, op.settings.Dir)
	}
	if err != nil {
		return nil, err
	}
	result.Manifest = op.manifestRelPath(file)
	result.Previous = file.Version()
	return file, nil
}

// resolve computes the next version and the target tag name, failing
// early when that tag is already taken. It returns the tag list and
// the prefix so later steps reuse the single listing.
func (op *Operation) resolve(ctx context.Context, result *Result) ([]string, string, error) {
	var (
		next version.Version
		err  error
	)
	if op.explicit != nil {
		next = *op.explicit
		if next == result.Previous {
			return nil, "", versionstatus.ErrInvalidProgression.WrapMessage(
				"version is already %s", result.Previous)
		}
	} else {
		next, err = version.Resolve(result.Previous, op.kind)
		if err != nil {
			return nil, "", err
		}
	}

	tags, err := op.repo.ListTags(ctx)
	if err != nil {
		return nil, "", err
	}
	prefix := op.settings.TagPrefix
	if prefix == "" {
		prefix = DetectPrefix(tags)
	}
	tag := prefix + next.String()
	exists, err := op.repo.TagExists(ctx, tag)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", vcsstatus.ErrTagExists.WrapMessage("tag %s already exists", tag)
	}
	result.Next = next
	result.Tag = tag
	return tags, prefix, nil
}

// rewriteHistory drops the planned commits, bracketed by a stash of
// any local changes, then force pushes the rewritten branch. A failed
// drop is rolled back by the underlying rebase abort and the stash
// restore, then reported as a plain error. Only a stranded stash or a
// failed force push leave partial state behind.
func (op *Operation) rewriteHistory(ctx context.Context, result *Result, plan HistoryPlan) error {
	marker := "relstage-" + rand.LetterString(stashMarkerLength)
	stashed, err := op.repo.StashSave(ctx, marker)
	if err != nil {
		return err
	}

	shas := make([]string, 0, len(plan.Commits))
	for _, commit := range plan.Commits {
		shas = append(shas, commit.SHA)
	}
	dropErr := op.repo.DropCommits(ctx, shas)

	if stashed {
		if dropErr != nil {
			op.step(result, StepRollingBack)
		}
		// restore local changes even when the surrounding context got canceled
		if popErr := op.repo.StashPop(context.WithoutCancel(ctx), marker); popErr != nil {
			if dropErr != nil {
				return status.ErrPartial.Wrap(multierr.Append(dropErr, popErr))
			}
			return status.ErrPartial.Wrap(fmt.Errorf(
				"history rewritten but local changes remain in stash %q: %w", marker, popErr))
		}
	}
	if dropErr != nil {
		return dropErr
	}
	result.DroppedCommits = plan.Commits

	if op.settings.SkipPush {
		op.l.Info("skipping force push of rewritten history")
		return nil
	}
	remote, err := op.repo.HasRemote(ctx)
	if err != nil {
		return op.partial(result, err)
	}
	if !remote {
		op.l.Warn("no remote configured, rewritten history not pushed")
		return nil
	}
	if err := op.repo.ForcePush(ctx); err != nil {
		return op.partial(result, err)
	}
	return nil
}

// commitBump commits the version declaration file and nothing else.
// Other uncommitted files are reported and left alone.
func (op *Operation) commitBump(ctx context.Context, result *Result) error {
	entries, err := op.repo.UncommittedFiles(ctx)
	if err != nil {
		return err
	}
	var unrelated []string
	for _, entry := range entries {
		if entry.Path != result.Manifest {
			unrelated = append(unrelated, entry.Path)
		}
	}
	if len(unrelated) > 0 {
		op.l.Warn("unrelated uncommitted files left alone", zap.Strings("files", unrelated))
	}
	message := op.settings.CommitMessage
	if message == "" {
		message = defaultCommitMessage
	}
	return op.repo.Commit(ctx, renderMessage(message, result), []string{result.Manifest})
}

// cleanTags retires the pre-release tags superseded by the new
// version. Local deletions must succeed. Remote deletion is best
// effort: the tags may never have been pushed.
func (op *Operation) cleanTags(ctx context.Context, result *Result, tags []string, prefix string) error {
	removals := PlanRemovals(result.Previous, result.Next, prefix, tags)
	if len(removals) == 0 {
		return nil
	}
	var failed error
	for _, tag := range removals {
		if err := op.repo.DeleteTag(ctx, tag); err != nil {
			failed = multierr.Append(failed, err)
			continue
		}
		result.RemovedTags = append(result.RemovedTags, tag)
	}
	if failed != nil {
		return op.partial(result, failed)
	}

	if op.settings.SkipPush {
		return nil
	}
	remote, err := op.repo.HasRemote(ctx)
	if err != nil {
		return op.partial(result, err)
	}
	if !remote {
		return nil
	}
	if err := op.repo.DeleteRemoteTags(ctx, removals); err != nil {
		op.l.Warn("remote tag deletion failed", zap.Error(err))
	}
	return nil
}

func (op *Operation) push(ctx context.Context, result *Result) error {
	if op.settings.SkipPush {
		op.l.Info("push skipped")
		return nil
	}
	remote, err := op.repo.HasRemote(ctx)
	if err != nil {
		return op.partial(result, err)
	}
	if !remote {
		op.l.Warn("no remote configured, nothing pushed")
		return nil
	}
	if err := op.repo.Push(ctx); err != nil {
		return op.partial(result, err)
	}
	if err := op.repo.PushTags(ctx); err != nil {
		return op.partial(result, err)
	}
	result.Pushed = true
	return nil
}

func (op *Operation) manifestRelPath(file *manifest.File) string {
	rel, err := filepath.Rel(op.settings.Dir, file.Path())
	if err != nil {
		return file.Path()
	}
	return filepath.ToSlash(rel)
}

// renderMessage expands the {current} and {new} placeholders of a
// commit or tag message template.
func renderMessage(template string, result *Result) string {
	message := strings.ReplaceAll(template, "{current}", result.Previous.String())
	return strings.ReplaceAll(message, "{new}", result.Next.String())
}

func dropPrompt(branch string, plan HistoryPlan) string {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "about to drop from %s, then force push the rewritten history:", branch)
	for _, commit := range plan.Commits {
		fmt.Fprintf(&prompt, "\n  %s %s", shortSHA(commit.SHA), commit.Subject)
	}
	return prompt.String()
}

func shortSHA(sha string) string {
	if len(sha) > 10 {
		return sha[:10]
	}
	return sha
}
