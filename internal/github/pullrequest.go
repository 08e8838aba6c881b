package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v72/github"
)

// PullRequestService handles GitHub pull request operations
type PullRequestService interface {
	CreatePullRequest(ctx context.Context, owner, repo, baseBranch, sourceBranch, title, body string) (*github.PullRequest, error)
	GetPullRequestByBranch(ctx context.Context, owner, repo, baseBranch, sourceBranch string) (*github.PullRequest, error)
	AddLabels(ctx context.Context, owner, repo string, prNumber int, labels ...string) error
}

// pullRequestService implements PullRequestService using GitHub API
type pullRequestService struct {
	client *github.Client
}

// NewPullRequestService creates a new PullRequestService
func NewPullRequestService(client *github.Client) PullRequestService {
	return &pullRequestService{
		client: client,
	}
}

func (prs *pullRequestService) CreatePullRequest(ctx context.Context, owner, repo, baseBranch, sourceBranch, title, body string) (*github.PullRequest, error) {
	newPR := &github.NewPullRequest{
		Title:               github.Ptr(title),
		Head:                github.Ptr(sourceBranch),
		Base:                github.Ptr(baseBranch),
		Body:                github.Ptr(body),
		MaintainerCanModify: github.Ptr(true),
	}

	pr, _, err := prs.client.PullRequests.Create(ctx, owner, repo, newPR)
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	return pr, nil
}

// GetPullRequestByBranch returns the open pull request from sourceBranch into baseBranch, or nil if there is none
func (prs *pullRequestService) GetPullRequestByBranch(ctx context.Context, owner, repo, baseBranch, sourceBranch string) (*github.PullRequest, error) {
	opts := &github.PullRequestListOptions{
		Head:        fmt.Sprintf("%s:%s", owner, sourceBranch),
		Base:        baseBranch,
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	prsList, _, err := prs.client.PullRequests.List(ctx, owner, repo, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}

	for _, pr := range prsList {
		if strings.EqualFold(pr.GetHead().GetRef(), sourceBranch) {
			return pr, nil
		}
	}

	return nil, nil // No PR found
}

func (prs *pullRequestService) AddLabels(ctx context.Context, owner, repo string, prNumber int, labels ...string) error {
	_, _, err := prs.client.Issues.AddLabelsToIssue(ctx, owner, repo, prNumber, labels)
	if err != nil {
		return fmt.Errorf("failed to add labels to #%d: %w", prNumber, err)
	}
	return nil
}
