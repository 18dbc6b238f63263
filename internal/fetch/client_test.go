package fetch_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/halglue/internal/fetch"
	"github.com/vk/halglue/internal/testutil"
)

const testRepo = "https://github.com/rust-embedded/embedded-hal"

func newTestClient(srv *testutil.TreeServer) *fetch.Client {
	return fetch.NewClient(fetch.Options{
		APIBaseURL: srv.URL,
		RawBaseURL: srv.URL,
		Attempts:   3,
		RetryBase:  time.Millisecond,
	})
}

func TestFetchRetrievesRustSourcesAndManifests(t *testing.T) {
	srv := testutil.NewTreeServer(t, map[string]string{
		"Cargo.toml":         "[package]\nname = \"embedded-hal\"\n",
		"src/lib.rs":         "pub trait OutputPin {}\n",
		"src/spi/mod.rs":     "pub trait SpiBus {}\n",
		"docs/guide.md":      "not a source file",
		"examples/blinky.py": "also not",
	})
	c := newTestClient(srv)

	result, err := c.Fetch(context.Background(), testRepo, "main")
	require.NoError(t, err)
	require.Empty(t, result.Failures)

	var paths []string
	for _, f := range result.Files {
		paths = append(paths, f.Path)
	}
	sort.Strings(paths)
	assert.Equal(t, []string{"Cargo.toml", "src/lib.rs", "src/spi/mod.rs"}, paths)

	for _, f := range result.Files {
		if f.Path == "src/lib.rs" {
			assert.Equal(t, "pub trait OutputPin {}\n", f.Content)
		}
	}
}

func TestFetchPerFileFailureIsNotFatal(t *testing.T) {
	srv := testutil.NewTreeServer(t, map[string]string{
		"src/lib.rs":    "pub trait OutputPin {}\n",
		"src/broken.rs": "pub trait Never {}\n",
		"src/timer.rs":  "pub trait CountDown {}\n",
	})
	srv.FailPath("src/broken.rs")
	c := newTestClient(srv)

	result, err := c.Fetch(context.Background(), testRepo, "main")
	require.NoError(t, err)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "src/broken.rs", result.Failures[0].Path)
	assert.Len(t, result.Files, 2)
}

func TestFetchZeroFilesRetriesThenFails(t *testing.T) {
	srv := testutil.NewTreeServer(t, map[string]string{
		"src/lib.rs": "pub trait OutputPin {}\n",
	})
	srv.FailListing(true)
	c := newTestClient(srv)

	_, err := c.Fetch(context.Background(), testRepo, "v1.0.0")

	var netErr *fetch.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, testRepo, netErr.Repository)
	assert.Equal(t, "v1.0.0", netErr.Ref)
	assert.Equal(t, 3, netErr.Attempts)

	listings := 0
	for _, path := range srv.Requests() {
		if path == "/repos/rust-embedded/embedded-hal/git/trees/v1.0.0" {
			listings++
		}
	}
	assert.Equal(t, 3, listings, "every attempt should hit the listing endpoint")
}

func TestFetchRecoversOnLaterAttempt(t *testing.T) {
	srv := testutil.NewTreeServer(t, map[string]string{
		"src/lib.rs": "pub trait OutputPin {}\n",
	})
	srv.FailListing(true)
	c := newTestClient(srv)

	done := make(chan struct{})
	go func() {
		// Heal the fixture while the client is backing off.
		time.Sleep(500 * time.Microsecond)
		srv.FailListing(false)
		close(done)
	}()

	result, err := c.Fetch(context.Background(), testRepo, "main")
	<-done
	if err != nil {
		// The healing raced past all attempts; that still must surface as a
		// network error, not anything else.
		var netErr *fetch.NetworkError
		require.ErrorAs(t, err, &netErr)
		return
	}
	assert.Len(t, result.Files, 1)
}

func TestFetchCancelledContext(t *testing.T) {
	srv := testutil.NewTreeServer(t, map[string]string{
		"src/lib.rs": "pub trait OutputPin {}\n",
	})
	srv.FailListing(true)
	c := fetch.NewClient(fetch.Options{
		APIBaseURL: srv.URL,
		RawBaseURL: srv.URL,
		Attempts:   3,
		RetryBase:  time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := c.Fetch(ctx, testRepo, "main")
	require.ErrorIs(t, err, context.Canceled)
}

func TestFetchInvalidRepositoryURL(t *testing.T) {
	c := fetch.NewClient(fetch.Options{Attempts: 1, RetryBase: time.Millisecond})

	_, err := c.Fetch(context.Background(), "https://github.com/onlyowner", "main")

	var netErr *fetch.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Zero(t, netErr.Attempts)
}

func TestSplitRepositoryForms(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://github.com/rust-embedded/embedded-hal", "embedded-hal"},
		{"https://github.com/esp-rs/esp-hal.git", "esp-hal"},
		{"not a url at all", "not a url at all"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, fetch.RepositoryName(tc.in))
	}
}
