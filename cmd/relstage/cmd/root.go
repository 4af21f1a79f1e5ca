package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "relstage",
	Short: "relstage stages releases through their pre-release lifecycle",
	Long: `relstage manages the version of a project from one release to the next.

It reads the version declaration file (pyproject.toml, setup.cfg or
galaxy.yml), resolves the next version from a bump kind (major, minor,
patch, dev, alpha, beta, rc, post), rewrites the declaration in place,
commits, tags and pushes. When a pre-release series is finalized, the
intermediate pre-release tags are retired and the bump commits that
produced them can be dropped from history.

relstage works against the local git repository and relies on the
ambient git identity, credentials and remote configuration.
`,
}

var config *CLIConfig

// envConfigLocation overrides the default location of the config file
const envConfigLocation = "RELSTAGE_CONFIG"

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)
	addLogLevel(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if location := os.Getenv(envConfigLocation); location != "" {
		viper.SetConfigFile(location)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".relstage")
	}

	viper.SetEnvPrefix("relstage")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
	config.setReleaseParams(&relstageFlags)
}
