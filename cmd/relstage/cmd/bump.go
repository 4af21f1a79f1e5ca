package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/relstage/relstage/pkg/errors"
	"github.com/relstage/relstage/pkg/release"
	"github.com/relstage/relstage/pkg/release/status"
	"github.com/relstage/relstage/pkg/version"
	"github.com/spf13/cobra"
)

// exitPartial is the exit status when a release fails after the
// repository was already modified
const exitPartial = 2

// bumpCmd represents the bump command
var bumpCmd = &cobra.Command{
	Use:   "bump [major|minor|patch|dev|alpha|beta|rc|post|VERSION]",
	Short: "Bump the project version and stage the release",
	Long: `Bump the project version, commit the change, tag it and push.

The target is either a bump kind (major, minor, patch, dev, alpha, beta,
rc, post) or an explicit version to move to. Without a target the patch
number is bumped.

When the bump finalizes a pre-release series, the pre-release tags of that
series are retired locally and on the remote. With --drop-prereleases the
bump commits which produced them are dropped from history as well, after
confirmation, and the rewritten history is force pushed.

A failure after the repository was already modified exits with status 2,
with the failing step named in the error.
`,
	Example: `% relstage bump minor
% relstage bump rc --message "release candidate {new}"
% relstage bump 2.0.0 --tag-message "major overhaul"
% relstage bump patch --no-push`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var target string
		if len(args) > 0 {
			target = args[0]
		}
		extra, err := parseTarget(target)
		if err != nil {
			wrapFatalln(err.Error(), nil)
			return
		}
		op, err := newCliOptionInputs(config, &relstageFlags).newRelease(extra...)
		if err != nil {
			wrapFatalln("configure release", err)
			return
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		result, err := op.Run(ctx)
		stopSpinner()
		if err != nil {
			if errors.Is(err, status.ErrPartial) {
				wrapFatalWithCodef(exitPartial, "%v", err)
				return
			}
			wrapFatalln("stage release", err)
			return
		}
		summarize(result)
	},
}

// parseTarget interprets the bump argument as a bump kind, or else as an
// explicit version to move to. An empty target means a patch bump.
func parseTarget(arg string) ([]release.Option, error) {
	if arg == "" {
		return nil, nil
	}
	kind, err := version.ParseKind(arg)
	if err == nil {
		return []release.Option{release.WithKind(kind)}, nil
	}
	v, verr := version.Parse(arg)
	if verr != nil {
		return nil, fmt.Errorf("target %q is neither a bump kind nor a version: %v", arg, verr)
	}
	return []release.Option{release.WithExplicitVersion(v)}, nil
}

// summarize reports the release outcome on standard output
func summarize(result release.Result) {
	infoLogger.Printf("version bumped from %s to %s on branch %s", result.Previous, result.Next, result.Branch)
	if len(result.DroppedCommits) > 0 {
		infoLogger.Printf("dropped %d pre-release bump commits from history", len(result.DroppedCommits))
	}
	if len(result.RemovedTags) > 0 {
		infoLogger.Printf("retired pre-release tags: %s", strings.Join(result.RemovedTags, ", "))
	}
	infoLogger.Printf("tagged %s", color.GreenString(result.Tag))
	if !result.Pushed {
		infoLogger.Println("nothing pushed, remember to push the branch and tag yourself")
	}
}

func init() {
	rootCmd.AddCommand(bumpCmd)
	addMessageFlag(bumpCmd)
	addTagMessageFlag(bumpCmd)
	addDropPrereleasesFlag(bumpCmd)
	addForceFlag(bumpCmd)
	addNoPushFlag(bumpCmd)
	addManifestFlag(bumpCmd)
	addTagPrefixFlag(bumpCmd)
	addRemoteFlag(bumpCmd)
}
