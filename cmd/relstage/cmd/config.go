package cmd

import (
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// CLIConfig describes the relstage configuration file.
//
// Every value is a default: the matching command line flag wins when
// set. Field names must stay aligned with the serialized names for
// viper to unmarshal them.
type CLIConfig struct {
	// Manifest names the version declaration file to use instead of auto-detection
	Manifest string `json:"manifest" yaml:"manifest" mapstructure:"manifest"`

	// TagPrefix pins the tag naming prefix instead of detecting it from existing tags
	TagPrefix string `json:"tag-prefix" yaml:"tag-prefix" mapstructure:"tag-prefix"`

	// Remote names the git remote to push to, "origin" when unset
	Remote string `json:"remote" yaml:"remote" mapstructure:"remote"`

	// LogLevel sets the default logging verbosity
	LogLevel string `json:"log-level" yaml:"log-level" mapstructure:"log-level"`

	// MessageTemplate overrides the generated bump commit message,
	// expanding the {current} and {new} placeholders
	MessageTemplate string `json:"message-template" yaml:"message-template" mapstructure:"message-template"`

	onceLogger sync.Once
	logger     *zap.Logger
}

// MarshalConfig serializes the configuration as a yaml document
func (c *CLIConfig) MarshalConfig() ([]byte, error) {
	return yaml.Marshal(c)
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *CLIConfig) setReleaseParams(flags *flagsT) {
	if flags.target.Manifest == "" {
		flags.target.Manifest = c.Manifest
	}
	if flags.target.TagPrefix == "" {
		flags.target.TagPrefix = c.TagPrefix
	}
	if flags.target.Remote == "" {
		flags.target.Remote = c.Remote
	}
	if flags.bump.Message == "" {
		flags.bump.Message = c.MessageTemplate
	}
}

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage the relstage config",
	Long: `Commands to manage the relstage CLI config.

The configuration holds the flags that do not change across runs, like the
tag prefix or the remote to push to, analogous to "git config ...".`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
