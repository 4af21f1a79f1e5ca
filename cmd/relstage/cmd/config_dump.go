package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the config used",
	Long:  `Print the config used by the invocation of the relstage command`,
	Run: func(cmd *cobra.Command, args []string) {
		var cfg CLIConfig
		if err := viper.Unmarshal(&cfg); err != nil {
			wrapFatalln("unmarshal config", err)
			return
		}

		o, err := cfg.MarshalConfig()
		if err != nil {
			wrapFatalln("could not serialize config to yaml", err)
			return
		}
		logStdOut("%s", o)
	},
}

func init() {
	configCmd.AddCommand(dumpCmd)
}
