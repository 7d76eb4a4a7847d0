package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"thunderstore-mod-browser/logger"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Run one catalog import and exit",
	Long: `Runs the full import pipeline once: download the feed (depending on
MOD_REFRESH), cache it, and reconcile the database against it.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ifExpired, _ := cmd.Flags().GetBool("if-expired")
		runImport(ifExpired)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().Bool("if-expired", false, "Only import when the previous import is older than the configured interval")
}

func runImport(ifExpired bool) {
	_, _, importer := bootstrap()

	var err error
	if ifExpired {
		err = importer.ImportIfNeeded()
	} else {
		err = importer.Run()
	}
	if err != nil {
		logger.Log.Fatalw("Catalog import failed", zap.Error(err))
	}
	logger.Log.Info("Catalog import finished")
}
