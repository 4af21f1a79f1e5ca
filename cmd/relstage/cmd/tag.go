package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// tagCmd represents the tag command
var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Tag the version currently declared in the manifest",
	Long: `Tag the version currently declared in the manifest, without bumping it.

This covers projects adopting relstage on an already released version, or
re-creating a tag deleted by mistake. The tag is pushed to the remote
unless --no-push is set.
`,
	Example: `% relstage tag
% relstage tag --tag-message "release {current}"`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		op, err := newCliOptionInputs(config, &relstageFlags).newRelease()
		if err != nil {
			wrapFatalln("configure release", err)
			return
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		result, err := op.TagCurrent(ctx)
		stopSpinner()
		if err != nil {
			wrapFatalln("tag release", err)
			return
		}
		infoLogger.Printf("tagged version %s as %s", result.Next, color.GreenString(result.Tag))
		if !result.Pushed {
			infoLogger.Println("tag not pushed, remember to push it yourself")
		}
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)
	addTagMessageFlag(tagCmd)
	addNoPushFlag(tagCmd)
	addManifestFlag(tagCmd)
	addTagPrefixFlag(tagCmd)
	addRemoteFlag(tagCmd)
}
