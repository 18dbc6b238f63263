package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirNames(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"tests", "core-lib", "hal-stm32"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, d), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "glue.hcl"), nil, 0o644))

	names, err := DirNames(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"core-lib", "hal-stm32", "tests"}, names, "files are skipped and names sorted")
}

func TestDirNamesMissingRoot(t *testing.T) {
	names, err := DirNames(filepath.Join(t.TempDir(), "no-such-dir"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
