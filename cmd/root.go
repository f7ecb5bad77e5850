package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "piccomarr",
	Short: "Download and monitor series from Piccoma France.",
	Long: `Download and monitor series from Piccoma France.

The monitor command needs a configuration file, provided using one of the
following methods:
1. Use the --config <path> or -c <path> flag.
2. Place a config.yaml file in the default user configuration directory (e.g., ~/.config/piccomarr/).
3. Place a config.yaml file a folder inside your home directory (e.g., ~/.piccomarr/).
4. Place a config.yaml file in the directory of the binary.

For more information and examples, visit https://github.com/piccomarr/piccomarr`,
}

func init() {
	initRootFlags()
	initDownloadFlags()

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(monitorCmd)
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
