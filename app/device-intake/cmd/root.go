package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "device-intake",
	Short: "Turns new-device issues into device data pull requests",
	Long: `device-intake reads a "new device" issue form, converts it into a device YAML file and
proposes the file to the data repository as a pull request on a per-device branch.`,
	PersistentPreRun: loadRootConfig,
	SilenceUsage:     true,
	SilenceErrors:    true,
}

func Execute() error {
	return rootCmd.Execute()
}

func loadRootConfig(_ *cobra.Command, _ []string) {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}
}
