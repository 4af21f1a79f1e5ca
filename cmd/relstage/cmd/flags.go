package cmd

import (
	"fmt"

	"github.com/relstage/relstage/pkg/logging"
	"github.com/relstage/relstage/pkg/release"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type flagsT struct {
	bump struct {
		Message         string
		TagMessage      string
		DropPrereleases bool
		Force           bool
		NoPush          bool
	}
	target struct {
		Manifest  string
		TagPrefix string
		Remote    string
	}
	root struct {
		logLevel string
		format   string
	}
}

var relstageFlags = flagsT{}

func addMessageFlag(cmd *cobra.Command) string {
	message := "message"
	cmd.Flags().StringVarP(&relstageFlags.bump.Message, message, "m", "",
		"The commit message for the version bump. {current} and {new} expand to the version strings")
	return message
}

func addTagMessageFlag(cmd *cobra.Command) string {
	tagMessage := "tag-message"
	cmd.Flags().StringVarP(&relstageFlags.bump.TagMessage, tagMessage, "t", "",
		"Annotate the release tag with this message. Without it the tag is lightweight")
	return tagMessage
}

func addDropPrereleasesFlag(cmd *cobra.Command) string {
	drop := "drop-prereleases"
	cmd.Flags().BoolVar(&relstageFlags.bump.DropPrereleases, drop, false,
		"When finalizing a series, drop its pre-release bump commits from history and force push")
	return drop
}

func addForceFlag(cmd *cobra.Command) string {
	force := "force"
	cmd.Flags().BoolVarP(&relstageFlags.bump.Force, force, "f", false,
		"Skip the confirmation prompt before rewriting history")
	return force
}

func addNoPushFlag(cmd *cobra.Command) string {
	noPush := "no-push"
	cmd.Flags().BoolVar(&relstageFlags.bump.NoPush, noPush, false,
		"Leave the remote alone: no push, no remote tag cleanup")
	return noPush
}

func addManifestFlag(cmd *cobra.Command) string {
	manifest := "manifest"
	cmd.Flags().StringVar(&relstageFlags.target.Manifest, manifest, "",
		"The version declaration file to use. Defaults to detecting pyproject.toml, setup.cfg or galaxy.yml")
	return manifest
}

func addTagPrefixFlag(cmd *cobra.Command) string {
	tagPrefix := "tag-prefix"
	cmd.Flags().StringVar(&relstageFlags.target.TagPrefix, tagPrefix, "",
		"The tag naming prefix, e.g. \"v\". Defaults to detecting it from existing tags")
	return tagPrefix
}

func addRemoteFlag(cmd *cobra.Command) string {
	remote := "remote"
	cmd.Flags().StringVar(&relstageFlags.target.Remote, remote, "",
		"The git remote to push to. Defaults to origin")
	return remote
}

func addLogLevel(cmd *cobra.Command) string {
	loglevel := "loglevel"
	cmd.PersistentFlags().StringVar(&relstageFlags.root.logLevel, loglevel, "",
		"The logging level. Levels by increasing order of verbosity: none, info, debug. Defaults to info")
	return loglevel
}

/** combined config (file + env var) and parameters (pflags) */

type cliOptionInputs struct {
	config *CLIConfig
	params *flagsT
}

func newCliOptionInputs(config *CLIConfig, params *flagsT) *cliOptionInputs {
	return &cliOptionInputs{
		config: config,
		params: params,
	}
}

func (in *cliOptionInputs) logLevel() string {
	switch {
	case in.params.root.logLevel != "":
		return in.params.root.logLevel
	case in.config != nil && in.config.LogLevel != "":
		return in.config.LogLevel
	default:
		return logging.LogLevelInfo
	}
}

func (in *cliOptionInputs) getLogger() (*zap.Logger, error) {
	if in.config == nil {
		return logging.GetLogger(in.logLevel())
	}
	var err error
	in.config.onceLogger.Do(func() {
		in.config.logger, err = logging.GetLogger(in.logLevel())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set log level: %v", err)
	}
	return in.config.logger, nil
}

// settings assembles the release settings from the config file and flags
func (in *cliOptionInputs) settings() release.Settings {
	flags := in.params
	return release.Settings{
		Dir:             ".",
		Manifest:        flags.target.Manifest,
		TagPrefix:       flags.target.TagPrefix,
		CommitMessage:   flags.bump.Message,
		TagMessage:      flags.bump.TagMessage,
		DropPrereleases: flags.bump.DropPrereleases,
		SkipPush:        flags.bump.NoPush,
	}
}

// newRelease assembles the release operation driven by the CLI commands
func (in *cliOptionInputs) newRelease(extra ...release.Option) (*release.Operation, error) {
	logger, err := in.getLogger()
	if err != nil {
		return nil, err
	}
	opts := append([]release.Option{
		release.WithSettings(in.settings()),
		release.WithLogger(logger),
		release.WithFS(releaseFS),
		release.WithConfirm(rewriteConfirmer()),
		release.WithStepObserver(stepProgress()),
	}, extra...)
	return release.New(newVCS(".", logger), opts...), nil
}
