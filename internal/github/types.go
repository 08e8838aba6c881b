package github

import (
	"fmt"
	"strings"
)

// Repository identifies a GitHub repository
type Repository struct {
	Owner string
	Name  string
}

func (r Repository) String() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

type GitHubIssue struct {
	Owner  string
	Repo   string
	Number int

	Title string
	Body  string
	URL   string

	Labels []string
}

// ParseRepository parses a qualified repository name of the form "owner/name"
func ParseRepository(qualified string) (Repository, error) {
	parts := strings.Split(qualified, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Repository{}, fmt.Errorf("invalid repository format '%s', expected owner/repo", qualified)
	}
	return Repository{Owner: parts[0], Name: parts[1]}, nil
}
