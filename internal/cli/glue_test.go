package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/halglue/internal/config"
	"github.com/vk/halglue/internal/fetch"
	"github.com/vk/halglue/internal/testutil"
)

const halRepo = "https://github.com/stm32-rs/stm32f4xx-hal"

// staticFetcher serves one canned tree for every repository.
type staticFetcher struct {
	result *fetch.Result
	err    error
}

func (f *staticFetcher) Fetch(ctx context.Context, repository, ref string) (*fetch.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// newWorkspaceRoot creates a minimal scaffolded workspace for glue commands.
func newWorkspaceRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, u := range []string{"core-lib", "tests"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, u), 0o755))
	}
	manifest := "[workspace]\nmembers = [\"core-lib\", \"tests\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte(manifest), 0o644))
	return root
}

// runCommand executes one halglue invocation against a test workspace.
func runCommand(t *testing.T, root string, fetcher fetch.Fetcher, args ...string) (string, error) {
	t.Helper()
	out := &testutil.SafeBuffer{}
	logs := &testutil.SafeBuffer{}
	opts := &options{outW: out, logW: logs, fetcher: fetcher}

	cmd := newRootCommand(opts)
	cmd.SetArgs(append([]string{"--project-root", root}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGlueInitReportsAnalysis(t *testing.T) {
	root := newWorkspaceRoot(t)
	fetcher := &staticFetcher{result: &fetch.Result{Files: []fetch.File{
		{Path: "Cargo.toml", Content: "[package]\nname = \"stm32f4xx-hal\"\nversion = \"0.21.0\"\n"},
		{Path: "src/gpio.rs", Content: "pub trait OutputPin {}\npub trait VendorDma {}\n"},
	}}}

	out, err := runCommand(t, root, fetcher, "glue", "init", "stm32", halRepo, "--ref", "v0.21.0")
	require.NoError(t, err)

	assert.Contains(t, out, `platform "stm32"`)
	assert.Contains(t, out, "status: analyzed")
	assert.Contains(t, out, "target: thumbv7em-none-eabihf")
	assert.Contains(t, out, "version: 0.21.0")
	assert.Contains(t, out, "mockable: OutputPin")
	assert.Contains(t, out, "interface 'VendorDma' may not be available for native testing")
	assert.Contains(t, out, "summary: 0 error(s), 1 warning(s)")
}

func TestGlueInitNetworkFailure(t *testing.T) {
	root := newWorkspaceRoot(t)
	fetcher := &staticFetcher{err: &fetch.NetworkError{Repository: halRepo, Attempts: 3, Err: fmt.Errorf("no files retrieved")}}

	_, err := runCommand(t, root, fetcher, "glue", "init", "stm32", halRepo)
	require.Error(t, err)
	assert.Equal(t, ExitNetwork, ExitCode(err))
}

func TestGlueValidateApplyThenList(t *testing.T) {
	root := newWorkspaceRoot(t)
	fetcher := &staticFetcher{result: &fetch.Result{Files: []fetch.File{
		{Path: "Cargo.toml", Content: "[package]\nname = \"stm32f4xx-hal\"\n"},
		{Path: "src/gpio.rs", Content: "pub trait OutputPin {}\n"},
	}}}

	_, err := runCommand(t, root, fetcher, "glue", "init", "stm32", halRepo)
	require.NoError(t, err)

	out, err := runCommand(t, root, fetcher, "glue", "validate", "--apply")
	require.NoError(t, err)
	assert.Contains(t, out, "status: registered")
	assert.Contains(t, out, "summary: 0 error(s), 0 warning(s)")

	out, err = runCommand(t, root, fetcher, "glue", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "stm32\tregistered\tthumbv7em-none-eabihf\t[OutputPin]\t0 warning(s)")
}

func TestGlueValidateReportErrorsExitContract(t *testing.T) {
	root := newWorkspaceRoot(t)
	fetcher := &staticFetcher{result: &fetch.Result{Files: []fetch.File{
		{Path: "src/gpio.rs", Content: "pub trait OutputPin {}\n"},
	}}}

	_, err := runCommand(t, root, fetcher, "glue", "init", "stm32", halRepo)
	require.NoError(t, err)
	_, err = runCommand(t, root, fetcher, "glue", "validate", "--apply")
	require.NoError(t, err)

	// Registered but never scaffolded: the next run reports errors and the
	// command maps them to exit code 1.
	out, err := runCommand(t, root, fetcher, "glue", "validate")
	require.Error(t, err)

	var reportErr *ReportError
	require.ErrorAs(t, err, &reportErr)
	assert.Equal(t, ExitReportErrors, ExitCode(err))
	assert.Contains(t, out, "missing scaffold for platform 'stm32'")
}

func TestGlueRemoveAndListEmpty(t *testing.T) {
	root := newWorkspaceRoot(t)
	fetcher := &staticFetcher{result: &fetch.Result{Files: []fetch.File{
		{Path: "src/gpio.rs", Content: "pub trait OutputPin {}\n"},
	}}}

	_, err := runCommand(t, root, fetcher, "glue", "init", "stm32", halRepo)
	require.NoError(t, err)

	out, err := runCommand(t, root, fetcher, "glue", "remove", "stm32")
	require.NoError(t, err)
	assert.Contains(t, out, `platform "stm32" removed`)

	_, err = runCommand(t, root, fetcher, "glue", "remove", "stm32")
	require.Error(t, err, "removing a tombstone fails")

	out, err = runCommand(t, root, fetcher, "glue", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "removed")
}

func TestGlueCommandsOnCorruptConfiguration(t *testing.T) {
	root := newWorkspaceRoot(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "glue.hcl"), []byte("platform \"x\" {"), 0o600))

	_, err := runCommand(t, root, &staticFetcher{}, "glue", "list")
	require.Error(t, err)

	var corrupt *config.CorruptError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, ExitCorrupt, ExitCode(err))
}

func TestUnknownCommandFails(t *testing.T) {
	out := &testutil.SafeBuffer{}
	opts := &options{outW: out, logW: &testutil.SafeBuffer{}}
	cmd := newRootCommand(opts)
	cmd.SetArgs([]string{"frobnicate"})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Equal(t, ExitReportErrors, ExitCode(err))
}
