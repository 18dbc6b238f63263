package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// File is one fetched source file.
type File struct {
	Path    string
	Content string
}

// Failure records a single file that could not be retrieved. Downstream this
// degrades to a warning diagnostic rather than aborting the run.
type Failure struct {
	Path string
	Err  error
}

// Result is the outcome of fetching one source tree. File order follows
// completion order and is not deterministic; consumers must sort.
type Result struct {
	Files    []File
	Failures []Failure
}

// Fetcher retrieves the source files reachable from a repository ref.
type Fetcher interface {
	Fetch(ctx context.Context, repository, ref string) (*Result, error)
}

// NetworkError means a fetch yielded zero files even after retries.
type NetworkError struct {
	Repository string
	Ref        string
	Attempts   int
	Err        error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s@%s yielded no files after %d attempts: %v",
		e.Repository, e.Ref, e.Attempts, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// splitRepository extracts the owner and repo segments from a repository URL
// such as https://github.com/owner/repo or https://github.com/owner/repo.git.
func splitRepository(repository string) (owner, repo string, err error) {
	u, err := url.Parse(repository)
	if err != nil {
		return "", "", fmt.Errorf("invalid repository url %q: %w", repository, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository url %q: expected <host>/<owner>/<repo>", repository)
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

// RepositoryName returns the bare repo segment of a repository URL, used by
// target inference to tokenize vendor hints. Falls back to the raw input when
// the URL does not split cleanly.
func RepositoryName(repository string) string {
	_, repo, err := splitRepository(repository)
	if err != nil {
		return repository
	}
	return repo
}
