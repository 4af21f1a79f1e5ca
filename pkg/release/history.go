package release

import (
	"context"
	"sort"
	"strings"

	"github.com/relstage/relstage/pkg/release/status"
	"github.com/relstage/relstage/pkg/vcs"
	"github.com/relstage/relstage/pkg/version"
)

// HistoryPlan is the outcome of a successful safety check: the series'
// pre-release tags and the commits they point at, oldest first, safe
// to drop from the current branch.
type HistoryPlan struct {
	Tags    []string
	Commits []vcs.Commit
	_       struct{}
}

// CheckHistory decides whether the pre-release bump commits of the
// series containing current can be dropped without losing other work.
//
// Unsafe conditions, each failing with ErrHistoryUnsafe: uncommitted
// changes in the work tree, a series without any pre-release tag, or
// work beyond the version declaration in the candidate range. The
// range covers both the files touched by each tagged commit and the
// whole diff from the first series tag to HEAD, so a stray commit
// sitting between bumps cannot slip through.
func CheckHistory(ctx context.Context, repo vcs.Repo, current version.Version, prefix, manifestPath string, tags []string) (HistoryPlan, error) {
	entries, err := repo.UncommittedFiles(ctx)
	if err != nil {
		return HistoryPlan{}, err
	}
	if len(entries) > 0 {
		paths := make([]string, 0, len(entries))
		for _, entry := range entries {
			paths = append(paths, entry.Path)
		}
		return HistoryPlan{}, status.ErrHistoryUnsafe.WrapMessage(
			"uncommitted changes in the work tree: %s", strings.Join(paths, ", "))
	}

	series := current.Base()
	type taggedVersion struct {
		tag string
		v   version.Version
	}
	var seriesTags []taggedVersion
	for _, tag := range tags {
		v, ok := parseTag(tag, prefix)
		if !ok || !v.IsPrerelease() || v.Base() != series {
			continue
		}
		seriesTags = append(seriesTags, taggedVersion{tag: tag, v: v})
	}
	if len(seriesTags) == 0 {
		return HistoryPlan{}, status.ErrHistoryUnsafe.WrapMessage(
			"no pre-release tag found for series %s", series)
	}
	sort.SliceStable(seriesTags, func(i, j int) bool {
		return seriesTags[i].v.Compare(seriesTags[j].v) < 0
	})

	var plan HistoryPlan
	seen := make(map[string]struct{})
	touched := make(map[string]struct{})
	for _, seriesTag := range seriesTags {
		commit, err := repo.ResolveTagCommit(ctx, seriesTag.tag)
		if err != nil {
			return HistoryPlan{}, err
		}
		plan.Tags = append(plan.Tags, seriesTag.tag)
		if _, dup := seen[commit.SHA]; dup {
			continue
		}
		seen[commit.SHA] = struct{}{}
		plan.Commits = append(plan.Commits, commit)

		files, err := repo.TouchedFiles(ctx, commit.SHA)
		if err != nil {
			return HistoryPlan{}, err
		}
		for _, file := range files {
			touched[file] = struct{}{}
		}
	}

	rangeFiles, err := repo.DiffNames(ctx, plan.Tags[0], "HEAD")
	if err != nil {
		return HistoryPlan{}, err
	}
	for _, file := range rangeFiles {
		touched[file] = struct{}{}
	}

	var offending []string
	for file := range touched {
		if file != manifestPath {
			offending = append(offending, file)
		}
	}
	if len(offending) > 0 {
		sort.Strings(offending)
		return HistoryPlan{}, status.ErrHistoryUnsafe.WrapMessage(
			"commits in the %s series touch more than %s: %s",
			series, manifestPath, strings.Join(offending, ", "))
	}
	return plan, nil
}
