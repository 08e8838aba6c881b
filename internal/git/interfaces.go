// Package git provides Git operations on a remote GitHub repository.
package git

import (
	"context"
	"errors"
	"time"

	"github.com/google/go-github/v72/github"
)

var (
	ErrBranchNotVisible = errors.New("branch not visible")
	ErrEmptyChangelist  = errors.New("changelist is empty")
)

// Changelist represents a set of changes to be committed
type Changelist interface {
	ForEachModified(fn func(path string, content string) error) error
	IsEmpty() bool
}

// RetryPolicy controls fixed-interval polling. The delay is waited before every attempt, including the first
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultBranchPolicy allows a newly created branch up to 15 seconds to become visible
var DefaultBranchPolicy = RetryPolicy{Attempts: 5, Delay: 3 * time.Second}

// GitRepo provides Git repository operations
type GitRepo interface {
	BranchExists(ctx context.Context, branch string) (bool, error)
	CreateBranch(ctx context.Context, baseBranch string, newBranch string) error
	WaitForBranch(ctx context.Context, branch string, policy RetryPolicy) error
	ReadFile(ctx context.Context, branch string, path string) (string, bool, error)
	CommitChanges(ctx context.Context, branch string, changelist Changelist, commitMessage string) (*github.Commit, error)
}
