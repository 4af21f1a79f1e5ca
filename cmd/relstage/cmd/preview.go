package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/relstage/relstage/pkg/release"
	"github.com/spf13/cobra"
)

// previewCmd represents the preview command
var previewCmd = &cobra.Command{
	Use:   "preview [major|minor|patch|dev|alpha|beta|rc|post|VERSION]",
	Short: "Preview the next release without changing anything",
	Long: `Preview what a bump would do: the resolved next version, the release
tag, the pre-release tags to retire and, with --drop-prereleases, the bump
commits that would be dropped from history.

The repository, its manifest and its tags are left untouched.
`,
	Example: `% relstage preview minor
% relstage preview rc --format json
% relstage preview major --drop-prereleases`,
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
		result, err := op.Preview(context.Background())
		if err != nil {
			wrapFatalln("preview release", err)
			return
		}
		if err := print(result); err != nil {
			wrapFatalln("render preview", err)
			return
		}
	},
}

func previewFormatter() FormatterFunc {
	return func(w io.Writer, data interface{}) error {
		result, ok := data.(release.Result)
		if !ok {
			return fmt.Errorf("cannot render %T as a release preview", data)
		}
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"Stage", "Outcome"})
		t.AppendRow(table.Row{"Version", fmt.Sprintf("%s -> %s", result.Previous, result.Next)})
		t.AppendRow(table.Row{"Branch", result.Branch})
		t.AppendRow(table.Row{"Manifest", result.Manifest})
		t.AppendRow(table.Row{"Release tag", result.Tag})
		if len(result.RemovedTags) > 0 {
			t.AppendRow(table.Row{"Tags to retire", strings.Join(result.RemovedTags, "\n")})
		}
		if len(result.DroppedCommits) > 0 {
			lines := make([]string, 0, len(result.DroppedCommits))
			for _, commit := range result.DroppedCommits {
				lines = append(lines, fmt.Sprintf("%.10s %s", commit.SHA, commit.Subject))
			}
			t.AppendRow(table.Row{"Commits to drop", strings.Join(lines, "\n")})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	}
}

func init() {
	rootCmd.AddCommand(previewCmd)
	addDropPrereleasesFlag(previewCmd)
	addManifestFlag(previewCmd)
	addTagPrefixFlag(previewCmd)
	if err := addFormatFlag(previewCmd, "table", map[string]Formatter{
		"table": previewFormatter(),
	}); err != nil {
		logFatalln(err)
	}
}
