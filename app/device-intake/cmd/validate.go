package cmd

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minipcdb/device-intake/internal/device"
)

var validateCmd = &cobra.Command{
	Use:   "validate <path>...",
	Short: "Check device files for missing or unrecognised values",
	Long: `Validates device YAML files. Directories are searched recursively for .yaml and .yml files.
Missing required fields are reported as errors and fail the command; unrecognised values are
reported as warnings.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	return validatePaths(cmd.OutOrStdout(), args)
}

func validatePaths(w io.Writer, paths []string) error {
	files, err := collectDeviceFiles(paths)
	if err != nil {
		return err
	}

	failed := 0
	for _, file := range files {
		rec, err := device.LoadFile(file)
		if err != nil {
			fmt.Fprintf(w, "::error file=%s::%v\n", file, err)
			failed++
			continue
		}

		issues := device.Validate(rec)
		for _, issue := range issues {
			level := "warning"
			if issue.Critical {
				level = "error"
			}
			fmt.Fprintf(w, "::%s file=%s::%s: %s\n", level, file, issue.Path, issue.Message)
		}
		if device.HasCritical(issues) {
			failed++
		}
	}

	fmt.Fprintf(w, "Validated %d device files, %d failed\n", len(files), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d device files failed validation", failed, len(files))
	}
	return nil
}

func collectDeviceFiles(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			// Explicitly named files are always checked
			if path == root || isYAML(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", root, err)
		}
	}
	return files, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
