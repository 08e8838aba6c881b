package cmd

import (
	"log"
	"os"

	"github.com/minipcdb/device-intake/internal/intake"
	"github.com/minipcdb/device-intake/internal/publish"
)

var config = Config{
	OutputDir: intake.DefaultOutputDir,
	Label:     publish.DefaultLabel,
}

type Config struct {
	GithubToken string

	// Publish options
	QualifiedRepoName string
	IssueNumber       int
	BaseBranch        string
	Label             string

	// Shared by process and publish
	OutputDir string

	// Telemetry config
	TelemetryEnabled bool
	OTLPEndpoint     string
	OTLPInsecure     bool
}

func loadFromEnv(dest *string, key string) {
	parseFromEnv(dest, key, func(v string) (string, error) { return v, nil })
}

func parseFromEnv[T any](dest *T, key string, parseFn func(string) (T, error)) {
	str := os.Getenv(key)
	if str == "" {
		log.Fatalf("::error::%s not set", key)
	}
	v, err := parseFn(str)
	if err != nil {
		log.Fatalf("::error::failed to parse environment variable '%s' value '%s' as '%T': %v", key, str, *dest, err)
	}
	*dest = v
}

func loadOptionalFromEnv(dest *string, key string) {
	parseOptionalFromEnv(dest, key, func(v string) (string, error) { return v, nil })
}

func parseOptionalFromEnv[T any](dest *T, key string, parseFn func(string) (T, error)) {
	str := os.Getenv(key)
	if str == "" {
		return // Leave default value
	}
	v, err := parseFn(str)
	if err != nil {
		log.Fatalf("::error::failed to parse environment variable '%s' value '%s' as '%T': %v", key, str, *dest, err)
	}
	*dest = v
}
