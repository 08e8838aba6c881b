package cmd

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/minipcdb/device-intake/internal/git"
	githubpkg "github.com/minipcdb/device-intake/internal/github"
	"github.com/minipcdb/device-intake/internal/publish"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Open a pull request for a new-device issue",
	Long: `Fetches a new-device issue, generates its device file and commits it to the branch
new-device/<device_id>, then opens a pull request that closes the issue. Re-running for the same
issue updates the branch and reuses the open pull request.

Designed to be triggered by GitHub Actions: the repository and issue number default to
GITHUB_REPOSITORY and ISSUE_NUMBER, and GITHUB_TOKEN is required.`,
	Args:   cobra.NoArgs,
	PreRun: loadPublishConfig,
	RunE:   runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&config.QualifiedRepoName, "repo", "", "Repository name in the format 'owner/repo' (default $GITHUB_REPOSITORY)")
	publishCmd.Flags().IntVar(&config.IssueNumber, "issue", 0, "Issue number to process (default $ISSUE_NUMBER)")
	publishCmd.Flags().StringVar(&config.BaseBranch, "base-branch", "", "Branch to open the pull request against (default: the repository's default branch)")
	publishCmd.Flags().StringVar(&config.OutputDir, "output-dir", config.OutputDir, "Local directory generated device files are written to")
	publishCmd.Flags().StringVar(&config.Label, "label", config.Label, "Label added to new pull requests; empty to skip")
	publishCmd.Flags().BoolVar(&config.TelemetryEnabled, "telemetry", false, "Export traces over OTLP/HTTP")
	publishCmd.Flags().StringVar(&config.OTLPEndpoint, "otlp-endpoint", "", "host:port of the OTLP/HTTP collector")
	publishCmd.Flags().BoolVar(&config.OTLPInsecure, "otlp-insecure", false, "Export traces without TLS")

	rootCmd.AddCommand(publishCmd)
}

func loadPublishConfig(cmd *cobra.Command, _ []string) {
	loadFromEnv(&config.GithubToken, "GITHUB_TOKEN")

	if !cmd.Flags().Changed("repo") {
		loadFromEnv(&config.QualifiedRepoName, "GITHUB_REPOSITORY")
	}
	if !cmd.Flags().Changed("issue") {
		parseFromEnv(&config.IssueNumber, "ISSUE_NUMBER", strconv.Atoi)
	}
	if !cmd.Flags().Changed("telemetry") {
		parseOptionalFromEnv(&config.TelemetryEnabled, "TELEMETRY_ENABLED", strconv.ParseBool)
	}
	if !cmd.Flags().Changed("otlp-endpoint") {
		loadOptionalFromEnv(&config.OTLPEndpoint, "OTLP_ENDPOINT")
	}
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := setupContext()

	repo, err := githubpkg.ParseRepository(config.QualifiedRepoName)
	if err != nil {
		return err
	}
	if config.IssueNumber <= 0 {
		return fmt.Errorf("invalid issue number %d", config.IssueNumber)
	}

	tp, err := createTelemetryProvider(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Printf("::warning::failed to flush telemetry: %v", err)
		}
	}()

	log.SetPrefix(fmt.Sprintf("[%s] ", tp.RunID()[:8]))
	log.Printf("Repository: %s", repo)
	log.Printf("Processing issue #%d", config.IssueNumber)

	githubClient := createGithubClient(config.GithubToken)

	p := publish.New(
		githubpkg.NewRepositoryService(githubClient),
		githubpkg.NewPullRequestService(githubClient),
		git.NewGithubGitRepo(githubClient.Git, githubClient.Repositories, repo.Owner, repo.Name),
		tp.Tracer(),
		newPublishConfig(repo),
	)

	result, err := p.PublishIssue(ctx, config.IssueNumber)
	if err != nil {
		return fmt.Errorf("failed to publish issue #%d: %w", config.IssueNumber, err)
	}

	if result.PullRequestCreated {
		fmt.Fprintf(cmd.OutOrStdout(), "Created pull request #%d: %s\n", result.PullRequestNumber, result.PullRequestURL)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Updated pull request #%d: %s\n", result.PullRequestNumber, result.PullRequestURL)
	}
	return nil
}

// newPublishConfig applies the command line to the publisher defaults. --output-dir only moves the local copy; files
// are always committed below the repository's devices directory
func newPublishConfig(repo githubpkg.Repository) publish.Config {
	publishConfig := publish.DefaultConfig(repo)
	publishConfig.BaseBranch = config.BaseBranch
	publishConfig.OutputDir = config.OutputDir
	publishConfig.Label = config.Label
	return publishConfig
}
