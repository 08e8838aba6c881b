// Package intake turns a new-device issue body into a device file on disk.
package intake

import (
	"fmt"
	"log"

	"github.com/minipcdb/device-intake/internal/device"
	"github.com/minipcdb/device-intake/internal/issueform"
)

// DefaultOutputDir is where device files live in the data repository
const DefaultOutputDir = "data/devices"

// Output describes the file produced for an issue
type Output struct {
	Path   string
	Record *device.Record
	Issues []device.Issue
}

// Process extracts, builds and validates the record described by an issue body and writes it below outputDir.
// Validation warnings are logged and returned; critical validation issues fail the run before anything is written
func Process(issueBody string, outputDir string) (*Output, error) {
	fields, err := issueform.Extract(issueBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse issue form: %w", err)
	}

	rec, err := device.Build(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build device record: %w", err)
	}

	issues := device.Validate(rec)
	for _, issue := range issues {
		if !issue.Critical {
			log.Printf("::warning::%s: %s", issue.Path, issue.Message)
		}
	}
	if device.HasCritical(issues) {
		return nil, fmt.Errorf("device record %s failed validation: %v", rec.ID, issues)
	}

	path, err := device.WriteFile(rec, outputDir)
	if err != nil {
		return nil, err
	}

	return &Output{Path: path, Record: rec, Issues: issues}, nil
}
