package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// configFileLocation yields the location of the config file. With expand,
// the home directory is resolved.
func configFileLocation(expand bool) string {
	if location := os.Getenv(envConfigLocation); location != "" {
		return location
	}
	if !expand {
		return "$HOME/.relstage.yaml"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".relstage.yaml")
}

var configGen = &cobra.Command{
	Aliases: []string{"create"},
	Use:     "set",
	Short:   "Create a local config file",
	Long: `Creates a local config file holding the flags that do not change across
runs, like the tag prefix or the remote to push to.

	By default, this configuration file is placed in ` + configFileLocation(false) + `.

	Use the ` + envConfigLocation + ` environment variable to change this default target.
	`,
	Example: `# Pin the tag prefix and the remote
% relstage config set --tag-prefix v --remote upstream
config file created in /home/fred/.relstage.yaml

# Set a house style for bump commit messages
% relstage config set --message "chore: bump {current} to {new}"
config file created in /home/fred/.relstage.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		localConfig := CLIConfig{
			Manifest:        relstageFlags.target.Manifest,
			TagPrefix:       relstageFlags.target.TagPrefix,
			Remote:          relstageFlags.target.Remote,
			LogLevel:        relstageFlags.root.logLevel,
			MessageTemplate: relstageFlags.bump.Message,
		}

		file := configFileLocation(true)

		if ext := filepath.Ext(file); ext != ".yaml" && ext != ".yml" {
			infoLogger.Printf("warning: the generated config file will contain a yaml document, but the file extension is %q", ext)
		}
		o, err := localConfig.MarshalConfig()
		if err != nil {
			wrapFatalln("could not serialize config to yaml", err)
			return
		}

		err = releaseFS.MkdirAll(filepath.Dir(file), 0777)
		if err != nil {
			wrapFatalln("could not create directory to hold config "+filepath.Dir(file), err)
			return
		}

		err = afero.WriteFile(releaseFS, file, o, 0600)
		if err != nil {
			wrapFatalln("error writing config file "+file, err)
			return
		}

		infoLogger.Printf("config file created in %s", file)
	},
}

func init() {
	addManifestFlag(configGen)
	addTagPrefixFlag(configGen)
	addRemoteFlag(configGen)
	addMessageFlag(configGen)
	configCmd.AddCommand(configGen)
}
