package release

import (
	"strings"

	"github.com/relstage/relstage/pkg/version"
)

// DetectPrefix guesses the tag naming prefix from existing tags.
//
// The most recent tag that parses as a version (bare or "v" prefixed)
// decides. Repositories without version tags default to "v".
func DetectPrefix(tags []string) string {
	for i := len(tags) - 1; i >= 0; i-- {
		tag := tags[i]
		if trimmed := strings.TrimPrefix(tag, "v"); trimmed != tag {
			if _, err := version.Parse(trimmed); err == nil {
				return "v"
			}
		}
		if _, err := version.Parse(tag); err == nil {
			return ""
		}
	}
	return "v"
}

// PlanRemovals lists the pre-release tags made obsolete by moving from
// previous to next.
//
// Nothing is planned while next is itself a pre-release: intermediate
// tags only fall when their series reaches a final (or post) version.
// The scope widens with the size of the jump: a major bump sweeps the
// whole previous major line, a minor bump the previous major.minor
// line, anything else exactly the series being finalized. Tags are
// matched by parsing, never by text patterns, and only dev, alpha,
// beta and rc tags are ever removed.
func PlanRemovals(previous, next version.Version, prefix string, tags []string) []string {
	if next.IsPrerelease() {
		return nil
	}

	inScope := func(v version.Version) bool {
		switch {
		case next.Major > previous.Major:
			return v.Major == previous.Major
		case next.Minor > previous.Minor:
			return v.Major == previous.Major && v.Minor == previous.Minor
		default:
			return v.Base() == next.Base()
		}
	}

	var removals []string
	for _, tag := range tags {
		v, ok := parseTag(tag, prefix)
		if !ok || !v.IsPrerelease() {
			continue
		}
		if inScope(v) {
			removals = append(removals, tag)
		}
	}
	return removals
}

// parseTag strips the prefix and parses the remainder as a version
func parseTag(tag, prefix string) (version.Version, bool) {
	name := tag
	if prefix != "" {
		trimmed := strings.TrimPrefix(tag, prefix)
		if trimmed == tag {
			return version.Version{}, false
		}
		name = trimmed
	}
	v, err := version.Parse(name)
	if err != nil {
		return version.Version{}, false
	}
	return v, true
}
