package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "thunderstore-mod-browser",
	Short: "A mod catalog server backed by the Thunderstore package feed",
	Long: `Imports the Thunderstore package feed for a game community into a
local database and serves a per-user mod browsing and rating API.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
