package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/minipcdb/device-intake/internal/intake"
)

var processCmd = &cobra.Command{
	Use:   "process <input_file>",
	Short: "Convert a saved issue body into a device file",
	Long: `Reads an issue body from a file, builds the device record it describes and writes it to
<output-dir>/<brand>/<device_id>.yaml. The path of the written file is printed on success.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVar(&config.OutputDir, "output-dir", config.OutputDir, "Directory device files are written to")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	return processFile(cmd.OutOrStdout(), args[0], config.OutputDir)
}

func processFile(w io.Writer, inputFile string, outputDir string) error {
	body, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("failed to read issue body: %w", err)
	}

	log.Printf("Processing %s", inputFile)
	out, err := intake.Process(string(body), outputDir)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, out.Path)
	return err
}
