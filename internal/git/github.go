package git

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v72/github"
)

// githubGitRepo implements a handful of porcelain git commands using the GitHub API. It manipulates a remote git
// repository directly; e.g. commits appear on the remote without a push
type githubGitRepo struct {
	git          *github.GitService          // For low-level git operations
	reposService *github.RepositoriesService // For file contents

	owner string
	repo  string
}

// NewGithubGitRepo creates a new GitHub-backed Git repository
func NewGithubGitRepo(gitService *github.GitService, reposService *github.RepositoriesService, owner string, repo string) GitRepo {
	return &githubGitRepo{
		git:          gitService,
		reposService: reposService,
		owner:        owner,
		repo:         repo,
	}
}

func branchRef(branch string) string {
	return fmt.Sprintf("refs/heads/%s", branch)
}

// isNotFound returns true if err is a GitHub API 404
func isNotFound(resp *github.Response, err error) bool {
	if err == nil {
		return false
	}
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return true
	}
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
}

// BranchExists returns true if the branch exists. Errors other than "not found" are returned
func (ggr *githubGitRepo) BranchExists(ctx context.Context, branch string) (bool, error) {
	_, resp, err := ggr.git.GetRef(ctx, ggr.owner, ggr.repo, branchRef(branch))
	if err == nil {
		return true, nil
	} else if isNotFound(resp, err) {
		return false, nil
	}
	return false, fmt.Errorf("unexpected error while checking if branch '%s' exists: %w", branch, err)
}

// CreateBranch creates a new branch. If the branch already exists, CreateBranch does not return an error
func (ggr *githubGitRepo) CreateBranch(ctx context.Context, baseBranch string, newBranch string) error {
	exists, err := ggr.BranchExists(ctx, newBranch)
	if err != nil {
		return err
	} else if exists {
		return nil
	}

	// Get the base branch reference
	baseRef, _, err := ggr.git.GetRef(ctx, ggr.owner, ggr.repo, branchRef(baseBranch))
	if err != nil {
		return fmt.Errorf("failed to get base branch reference: %w", err)
	}

	// Create the new branch
	newRef := &github.Reference{
		Ref: github.Ptr(branchRef(newBranch)),
		Object: &github.GitObject{
			SHA: baseRef.Object.SHA,
		},
	}

	log.Printf("Creating ref '%s' from %s at %s", newRef.GetRef(), baseBranch, baseRef.GetObject().GetSHA())
	_, _, err = ggr.git.CreateRef(ctx, ggr.owner, ggr.repo, newRef)
	if err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}

	return nil
}

// WaitForBranch polls until the branch is visible through the API. Newly created refs are not always readable
// immediately
func (ggr *githubGitRepo) WaitForBranch(ctx context.Context, branch string, policy RetryPolicy) error {
	var lastErr error
	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		if err := sleep(ctx, policy.Delay); err != nil {
			return err
		}

		exists, err := ggr.BranchExists(ctx, branch)
		if err != nil {
			lastErr = err
			log.Printf("::warning::Error verifying branch '%s', retrying (%d/%d): %v", branch, attempt, policy.Attempts, err)
			continue
		}
		if exists {
			log.Printf("Branch '%s' confirmed available", branch)
			return nil
		}
		log.Printf("Branch '%s' not yet available, retrying (%d/%d)", branch, attempt, policy.Attempts)
	}

	if lastErr != nil {
		return fmt.Errorf("%w: '%s' after %d attempts: %w", ErrBranchNotVisible, branch, policy.Attempts, lastErr)
	}
	return fmt.Errorf("%w: '%s' after %d attempts", ErrBranchNotVisible, branch, policy.Attempts)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// ReadFile returns the content of a file on a branch. The second return value is false if the file does not exist
func (ggr *githubGitRepo) ReadFile(ctx context.Context, branch string, path string) (string, bool, error) {
	fileContent, _, resp, err := ggr.reposService.GetContents(ctx, ggr.owner, ggr.repo, path, &github.RepositoryContentGetOptions{
		Ref: branch,
	})
	if isNotFound(resp, err) {
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("failed to get contents of '%s' on '%s': %w", path, branch, err)
	}
	if fileContent == nil {
		return "", false, fmt.Errorf("'%s' on '%s' is a directory", path, branch)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return "", false, fmt.Errorf("failed to decode contents of '%s': %w", path, err)
	}
	return content, true, nil
}

// CommitChanges commits the given changelist to the specified branch
func (ggr *githubGitRepo) CommitChanges(ctx context.Context, branch string, changelist Changelist, commitMessage string) (*github.Commit, error) {
	if changelist.IsEmpty() {
		return nil, ErrEmptyChangelist
	}

	// Get the current branch reference
	ref, _, err := ggr.git.GetRef(ctx, ggr.owner, ggr.repo, branchRef(branch))
	if err != nil {
		return nil, fmt.Errorf("failed to get branch reference: %w", err)
	}

	// Get the commit object that the branch currently points to
	currentCommit, _, err := ggr.git.GetCommit(ctx, ggr.owner, ggr.repo, ref.GetObject().GetSHA())
	if err != nil {
		return nil, fmt.Errorf("failed to get current commit: %w", err)
	}

	// Get the tree that the current commit points to
	baseTree, _, err := ggr.git.GetTree(ctx, ggr.owner, ggr.repo, currentCommit.GetTree().GetSHA(), false)
	if err != nil {
		return nil, fmt.Errorf("failed to get base tree: %w", err)
	}

	// Create tree entries for all modified files
	var entries []*github.TreeEntry
	err = changelist.ForEachModified(func(path string, content string) error {
		blob, _, err := ggr.git.CreateBlob(ctx, ggr.owner, ggr.repo, &github.Blob{
			Content:  github.Ptr(content),
			Encoding: github.Ptr("utf-8"),
		})
		if err != nil {
			return fmt.Errorf("failed to create blob for %s: %w", path, err)
		}

		entries = append(entries, &github.TreeEntry{
			Path: github.Ptr(path),
			Mode: github.Ptr("100644"), // Regular file mode
			Type: github.Ptr("blob"),
			SHA:  blob.SHA,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Create a new tree with our changes
	newTree, _, err := ggr.git.CreateTree(ctx, ggr.owner, ggr.repo, baseTree.GetSHA(), entries)
	if err != nil {
		return nil, fmt.Errorf("failed to create tree: %w", err)
	}

	// Create a new commit
	newCommit, _, err := ggr.git.CreateCommit(ctx, ggr.owner, ggr.repo, &github.Commit{
		Message: github.Ptr(commitMessage),
		Tree:    newTree,
		Parents: []*github.Commit{{SHA: currentCommit.SHA}},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create commit: %w", err)
	}

	// Fast-forward the branch to the new commit
	_, _, err = ggr.git.UpdateRef(ctx, ggr.owner, ggr.repo, &github.Reference{
		Ref: github.Ptr(branchRef(branch)),
		Object: &github.GitObject{
			SHA: newCommit.SHA,
		},
	}, false)
	if err != nil {
		return nil, fmt.Errorf("failed to update branch reference: %w", err)
	}

	return newCommit, nil
}
