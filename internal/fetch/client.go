package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vk/halglue/internal/ctxlog"
)

const (
	defaultAPIBaseURL = "https://api.github.com"
	defaultRawBaseURL = "https://raw.githubusercontent.com"

	// defaultConcurrency caps the number of in-flight file requests.
	defaultConcurrency = 8
	// defaultAttempts is how often a zero-file fetch is retried before the
	// NetworkError surfaces.
	defaultAttempts = 3
	// defaultRetryBase seeds the exponential backoff between attempts.
	defaultRetryBase = 500 * time.Millisecond
)

// Options configures a Client. Zero values select the defaults above.
type Options struct {
	APIBaseURL  string
	RawBaseURL  string
	HTTPClient  *http.Client
	Concurrency int
	Attempts    int
	RetryBase   time.Duration
}

// Client fetches source trees over HTTP. It implements Fetcher.
type Client struct {
	apiBase     string
	rawBase     string
	httpClient  *http.Client
	concurrency int
	attempts    int
	retryBase   time.Duration
}

// NewClient creates a fetch client, filling unset options with defaults.
func NewClient(opts Options) *Client {
	c := &Client{
		apiBase:     strings.TrimSuffix(opts.APIBaseURL, "/"),
		rawBase:     strings.TrimSuffix(opts.RawBaseURL, "/"),
		httpClient:  opts.HTTPClient,
		concurrency: opts.Concurrency,
		attempts:    opts.Attempts,
		retryBase:   opts.RetryBase,
	}
	if c.apiBase == "" {
		c.apiBase = defaultAPIBaseURL
	}
	if c.rawBase == "" {
		c.rawBase = defaultRawBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.concurrency <= 0 {
		c.concurrency = defaultConcurrency
	}
	if c.attempts <= 0 {
		c.attempts = defaultAttempts
	}
	if c.retryBase <= 0 {
		c.retryBase = defaultRetryBase
	}
	return c
}

// treeResponse mirrors the git tree listing endpoint.
type treeResponse struct {
	Tree []treeEntry `json:"tree"`
}

type treeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// Fetch retrieves all Rust sources and manifests reachable from the ref. A
// zero-file outcome is retried with exponential backoff; per-file failures
// are collected in the result and never abort sibling fetches.
func (c *Client) Fetch(ctx context.Context, repository, ref string) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	owner, repo, err := splitRepository(repository)
	if err != nil {
		return nil, &NetworkError{Repository: repository, Ref: ref, Attempts: 0, Err: err}
	}
	if ref == "" {
		ref = "main"
	}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			backoff := c.retryBase * time.Duration(1<<(attempt-2))
			logger.Debug("Retrying fetch after backoff.",
				"repository", repository, "ref", ref, "attempt", attempt, "backoff", backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := c.fetchOnce(ctx, owner, repo, ref)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}
		if len(result.Files) == 0 {
			lastErr = fmt.Errorf("no files retrieved")
			continue
		}
		logger.Debug("Fetch complete.",
			"repository", repository, "ref", ref,
			"files", len(result.Files), "failures", len(result.Failures))
		return result, nil
	}

	return nil, &NetworkError{Repository: repository, Ref: ref, Attempts: c.attempts, Err: lastErr}
}

// fetchOnce performs a single listing plus bounded-concurrency file download pass.
func (c *Client) fetchOnce(ctx context.Context, owner, repo, ref string) (*Result, error) {
	paths, err := c.listTree(ctx, owner, repo, ref)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, path := range paths {
		g.Go(func() error {
			content, err := c.fetchFile(gctx, owner, repo, ref, path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failures = append(result.Failures, Failure{Path: path, Err: err})
				return nil
			}
			result.Files = append(result.Files, File{Path: path, Content: content})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// listTree returns the paths of all source files and manifests in the tree.
func (c *Client) listTree(ctx context.Context, owner, repo, ref string) ([]string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", c.apiBase, owner, repo, ref)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("list tree: %w", err)
	}

	var tree treeResponse
	if err := json.Unmarshal(body, &tree); err != nil {
		return nil, fmt.Errorf("decode tree listing: %w", err)
	}

	var paths []string
	for _, entry := range tree.Tree {
		if entry.Type != "blob" {
			continue
		}
		if wantFile(entry.Path) {
			paths = append(paths, entry.Path)
		}
	}
	return paths, nil
}

// wantFile selects the files analysis cares about: Rust sources for the
// interface parser and cargo manifests for version and target inference.
func wantFile(path string) bool {
	if strings.HasSuffix(path, ".rs") {
		return true
	}
	base := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		base = path[i+1:]
	}
	return base == "Cargo.toml"
}

func (c *Client) fetchFile(ctx context.Context, owner, repo, ref, path string) (string, error) {
	url := fmt.Sprintf("%s/%s/%s/%s/%s", c.rawBase, owner, repo, ref, path)
	body, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
