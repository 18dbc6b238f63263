package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/halglue/internal/config"
	"github.com/vk/halglue/internal/ctxlog"
	"github.com/vk/halglue/internal/fetch"
	"github.com/vk/halglue/internal/testutil"
)

type stubFetcher struct {
	result *fetch.Result
}

func (f *stubFetcher) Fetch(ctx context.Context, repository, ref string) (*fetch.Result, error) {
	return f.result, nil
}

func TestNewConfigRequiresProjectRoot(t *testing.T) {
	_, err := NewConfig(Config{})
	require.ErrorContains(t, err, "ProjectRoot")

	cfg, err := NewConfig(Config{ProjectRoot: "."})
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.ProjectRoot)
}

func TestNewLoggerFormats(t *testing.T) {
	t.Run("json handler emits json", func(t *testing.T) {
		buf := &testutil.SafeBuffer{}
		logger := newLogger("info", "json", buf)
		logger.Info("hello")

		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("debug level passes debug records", func(t *testing.T) {
		buf := &testutil.SafeBuffer{}
		newLogger("debug", "text", buf).Debug("noisy")
		assert.Contains(t, buf.String(), "noisy")
	})

	t.Run("default level drops debug records", func(t *testing.T) {
		buf := &testutil.SafeBuffer{}
		newLogger("info", "text", buf).Debug("noisy")
		assert.Empty(t, buf.String())
	})
}

func TestContextCarriesAppLogger(t *testing.T) {
	buf := &testutil.SafeBuffer{}
	cfg, err := NewConfig(Config{ProjectRoot: t.TempDir(), LogLevel: "debug"})
	require.NoError(t, err)
	a := New(buf, cfg, &stubFetcher{})

	ctx := a.Context(context.Background())
	ctxlog.FromContext(ctx).Debug("from context")
	assert.Contains(t, buf.String(), "from context")
}

func TestAddPlatformResolvesTargetFromGlueRecord(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"),
		[]byte("[workspace]\nmembers = [\"core-lib\", \"tests\"]\n"), 0o644))

	cfg, err := NewConfig(Config{ProjectRoot: root})
	require.NoError(t, err)
	a := New(&testutil.SafeBuffer{}, cfg, &stubFetcher{})

	ctx := context.Background()
	require.NoError(t, a.Store().Add(ctx, &config.Platform{
		Name:   "stm32",
		Target: "thumbv7em-none-eabihf",
		Source: config.SourceRef{Repository: "https://github.com/stm32-rs/stm32f4xx-hal"},
		Status: config.StatusRegistered,
	}))

	require.NoError(t, a.AddPlatform(ctx, "stm32", "", ""))

	manifest, err := os.ReadFile(filepath.Join(root, "app-stm32", "Cargo.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), `name = "app-stm32"`)

	_, err = os.Stat(filepath.Join(root, "app-stm32", "memory.x"))
	assert.NoError(t, err, "the glue record's embedded target selects the no_std layout")
}

func TestAddPlatformWithoutRecordOrTarget(t *testing.T) {
	cfg, err := NewConfig(Config{ProjectRoot: t.TempDir()})
	require.NoError(t, err)
	a := New(&testutil.SafeBuffer{}, cfg, &stubFetcher{})

	err = a.AddPlatform(context.Background(), "mystery", "", "")
	require.ErrorContains(t, err, "no glue record")
}

func TestAddPlatformRecordWithoutTarget(t *testing.T) {
	cfg, err := NewConfig(Config{ProjectRoot: t.TempDir()})
	require.NoError(t, err)
	a := New(&testutil.SafeBuffer{}, cfg, &stubFetcher{})

	ctx := context.Background()
	require.NoError(t, a.Store().Add(ctx, &config.Platform{
		Name:   "mystery",
		Source: config.SourceRef{Repository: "https://github.com/x/mystery-hal"},
		Status: config.StatusAnalyzed,
	}))

	err = a.AddPlatform(ctx, "mystery", "", "")
	require.ErrorContains(t, err, "no target identifier")
}
