// Package publish proposes generated device files to the data repository as pull requests.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/minipcdb/device-intake/internal/git"
	githubpkg "github.com/minipcdb/device-intake/internal/github"
	"github.com/minipcdb/device-intake/internal/intake"
	"github.com/minipcdb/device-intake/internal/issueform"
	"github.com/minipcdb/device-intake/internal/telemetry"
)

const (
	DefaultLabel       = "automated-pr"
	DefaultSettleDelay = 3 * time.Second
)

var ErrGeneratedFileNotFound = errors.New("generated device file not found")

// Config holds everything the publisher needs to know about where to publish
type Config struct {
	Repository githubpkg.Repository
	// BaseBranch is the branch pull requests target. Empty means the repository's default branch
	BaseBranch string
	// DevicesRoot is the slash-separated directory of device files in the repository
	DevicesRoot string
	// OutputDir is the local directory generated files are written to
	OutputDir string
	Label     string

	BranchPolicy git.RetryPolicy
	// SettleDelay is waited between committing and looking up pull requests
	SettleDelay time.Duration
}

// DefaultConfig returns the configuration used by the GitHub workflow
func DefaultConfig(repo githubpkg.Repository) Config {
	return Config{
		Repository:   repo,
		DevicesRoot:  intake.DefaultOutputDir,
		OutputDir:    intake.DefaultOutputDir,
		Label:        DefaultLabel,
		BranchPolicy: git.DefaultBranchPolicy,
		SettleDelay:  DefaultSettleDelay,
	}
}

// state is a step of a publish run. States are reached in declaration order
type state string

const (
	stateBranchResolved   state = "branch-resolved"
	stateContentCommitted state = "content-committed"
	statePRResolved       state = "pr-resolved"
)

// Request describes one device file to publish
type Request struct {
	Identity    issueform.Identity
	IssueNumber int
	Content     string
}

// Result describes what a publish run did
type Result struct {
	Branch        string
	BaseBranch    string
	FilePath      string
	BranchCreated bool
	// CommitSHA is empty if the branch already contained identical content
	CommitSHA          string
	PullRequestNumber  int
	PullRequestURL     string
	PullRequestCreated bool
}

// Publisher commits device files to per-device branches and opens pull requests for them. Re-running for the same
// device reuses the branch and pull request, and makes no commit when the content is unchanged
type Publisher struct {
	repos  githubpkg.RepositoryService
	prs    githubpkg.PullRequestService
	git    git.GitRepo
	tracer trace.Tracer
	config Config
}

// New creates a publisher. A nil tracer disables tracing
func New(repos githubpkg.RepositoryService, prs githubpkg.PullRequestService, gitRepo git.GitRepo, tracer trace.Tracer, config Config) *Publisher {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &Publisher{
		repos:  repos,
		prs:    prs,
		git:    gitRepo,
		tracer: tracer,
		config: config,
	}
}

// PublishIssue reads a new-device issue, generates its device file and publishes it
func (p *Publisher) PublishIssue(ctx context.Context, issueNumber int) (_ *Result, err error) {
	ctx, span := p.tracer.Start(ctx, "publish.issue", trace.WithAttributes(
		attribute.String("repository", p.config.Repository.String()),
		attribute.Int("issue", issueNumber),
	))
	defer func() { telemetry.EndSpan(span, err) }()

	owner, repo := p.config.Repository.Owner, p.config.Repository.Name

	log.Printf("Fetching issue #%d from %s", issueNumber, p.config.Repository)
	issue, err := p.repos.GetIssue(ctx, owner, repo, issueNumber)
	if err != nil {
		return nil, err
	}

	id, err := issueform.ExtractIdentity(issue.Body)
	if err != nil {
		return nil, err
	}
	log.Printf("Extracted device ID: %s, brand: %s", id.DeviceID, id.Brand)

	out, err := intake.Process(issue.Body, p.config.OutputDir)
	if err != nil {
		return nil, err
	}
	log.Printf("Generated %s", out.Path)

	localPath := filepath.FromSlash(id.FilePath(filepath.ToSlash(p.config.OutputDir)))
	content, err := os.ReadFile(localPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w at %s", ErrGeneratedFileNotFound, localPath)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read generated file: %w", err)
	}

	return p.Publish(ctx, Request{
		Identity:    id,
		IssueNumber: issueNumber,
		Content:     string(content),
	})
}

// Publish commits the request's content and makes sure an open pull request exists for it
func (p *Publisher) Publish(ctx context.Context, req Request) (_ *Result, err error) {
	ctx, span := p.tracer.Start(ctx, "publish.device", trace.WithAttributes(
		attribute.String("device.id", req.Identity.DeviceID),
		attribute.String("device.brand", req.Identity.Brand),
	))
	defer func() { telemetry.EndSpan(span, err) }()

	result := &Result{
		Branch:   req.Identity.BranchName(),
		FilePath: req.Identity.FilePath(p.config.DevicesRoot),
	}

	result.BaseBranch = p.config.BaseBranch
	if result.BaseBranch == "" {
		result.BaseBranch, err = p.repos.GetDefaultBranch(ctx, p.config.Repository.Owner, p.config.Repository.Name)
		if err != nil {
			return nil, err
		}
	}

	if err := p.resolveBranch(ctx, result); err != nil {
		return nil, err
	}
	p.transition(span, stateBranchResolved, result)

	if err := p.commitContent(ctx, req, result); err != nil {
		return nil, err
	}
	p.transition(span, stateContentCommitted, result)

	if result.CommitSHA != "" {
		if err := sleep(ctx, p.config.SettleDelay); err != nil {
			return nil, err
		}
	}

	if err := p.resolvePullRequest(ctx, req, result); err != nil {
		return nil, err
	}
	p.transition(span, statePRResolved, result)

	return result, nil
}

func (p *Publisher) transition(span trace.Span, s state, result *Result) {
	log.Printf("[%s] %s", s, result.Branch)
	span.AddEvent(string(s))
}

func (p *Publisher) resolveBranch(ctx context.Context, result *Result) (err error) {
	ctx, span := p.tracer.Start(ctx, "publish.resolve_branch")
	defer func() { telemetry.EndSpan(span, err) }()

	log.Printf("Checking if branch '%s' exists...", result.Branch)
	exists, err := p.git.BranchExists(ctx, result.Branch)
	if err != nil {
		return err
	}
	if exists {
		log.Printf("Branch '%s' already exists", result.Branch)
		return nil
	}

	log.Printf("Creating branch '%s' from '%s'", result.Branch, result.BaseBranch)
	if err := p.git.CreateBranch(ctx, result.BaseBranch, result.Branch); err != nil {
		return err
	}
	if err := p.git.WaitForBranch(ctx, result.Branch, p.config.BranchPolicy); err != nil {
		return err
	}
	result.BranchCreated = true
	return nil
}

func (p *Publisher) commitContent(ctx context.Context, req Request, result *Result) (err error) {
	ctx, span := p.tracer.Start(ctx, "publish.commit_content")
	defer func() { telemetry.EndSpan(span, err) }()

	existing, found, err := p.git.ReadFile(ctx, result.Branch, result.FilePath)
	if err != nil {
		return err
	}
	if found && existing == req.Content {
		log.Printf("'%s' on '%s' is already up to date", result.FilePath, result.Branch)
		return nil
	}
	if found {
		log.Printf("Updating '%s' on '%s'", result.FilePath, result.Branch)
	} else {
		log.Printf("Creating '%s' on '%s'", result.FilePath, result.Branch)
	}

	changes := git.FileChanges{}
	changes.Set(result.FilePath, req.Content)

	commit, err := p.git.CommitChanges(ctx, result.Branch, changes, commitMessage(req.Identity))
	if err != nil {
		return err
	}
	result.CommitSHA = commit.GetSHA()
	log.Printf("Committed %s", result.CommitSHA)
	return nil
}

func (p *Publisher) resolvePullRequest(ctx context.Context, req Request, result *Result) (err error) {
	ctx, span := p.tracer.Start(ctx, "publish.resolve_pull_request")
	defer func() { telemetry.EndSpan(span, err) }()

	owner, repo := p.config.Repository.Owner, p.config.Repository.Name

	log.Printf("Checking for existing PRs for head branch '%s'...", result.Branch)
	pr, err := p.prs.GetPullRequestByBranch(ctx, owner, repo, result.BaseBranch, result.Branch)
	if err != nil {
		return err
	}
	if pr != nil {
		log.Printf("PR #%d already exists for this branch", pr.GetNumber())
		result.PullRequestNumber = pr.GetNumber()
		result.PullRequestURL = pr.GetHTMLURL()
		return nil
	}

	pr, err = p.prs.CreatePullRequest(ctx, owner, repo, result.BaseBranch, result.Branch, pullRequestTitle(req.Identity), pullRequestBody(req))
	if err != nil {
		return err
	}
	log.Printf("Created PR #%d", pr.GetNumber())
	result.PullRequestNumber = pr.GetNumber()
	result.PullRequestURL = pr.GetHTMLURL()
	result.PullRequestCreated = true

	if p.config.Label != "" {
		if err := p.prs.AddLabels(ctx, owner, repo, pr.GetNumber(), p.config.Label); err != nil {
			return err
		}
		log.Printf("Added '%s' label", p.config.Label)
	}
	return nil
}

func commitMessage(id issueform.Identity) string {
	return fmt.Sprintf("Add device data for %s %s", id.Brand, id.DeviceID)
}

func pullRequestTitle(id issueform.Identity) string {
	return fmt.Sprintf("Add Device: %s %s", id.Brand, id.DeviceID)
}

func pullRequestBody(req Request) string {
	return fmt.Sprintf("Adds data for **%s %s** based on issue #%d.\n\nCloses #%d",
		req.Identity.Brand, req.Identity.DeviceID, req.IssueNumber, req.IssueNumber)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
