package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v72/github"
)

// RepositoryService reads issues and repository metadata
type RepositoryService interface {
	GetIssue(ctx context.Context, owner, repo string, number int) (*GitHubIssue, error)
	GetDefaultBranch(ctx context.Context, owner, repo string) (string, error)
}

type repositoryService struct {
	client *github.Client
}

// NewRepositoryService creates a new RepositoryService
func NewRepositoryService(client *github.Client) RepositoryService {
	return &repositoryService{client: client}
}

func (rs *repositoryService) GetIssue(ctx context.Context, owner, repo string, number int) (*GitHubIssue, error) {
	issue, _, err := rs.client.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get issue #%d: %w", number, err)
	}

	var labels []string
	for _, l := range issue.Labels {
		labels = append(labels, l.GetName())
	}

	return &GitHubIssue{
		Owner:  owner,
		Repo:   repo,
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		Body:   issue.GetBody(),
		URL:    issue.GetHTMLURL(),
		Labels: labels,
	}, nil
}

func (rs *repositoryService) GetDefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	repository, _, err := rs.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return "", fmt.Errorf("failed to get repository %s/%s: %w", owner, repo, err)
	}
	if repository.GetDefaultBranch() == "" {
		return "", fmt.Errorf("repository %s/%s has no default branch", owner, repo)
	}
	return repository.GetDefaultBranch(), nil
}
