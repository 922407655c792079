// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package platform_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/janderssonse/lian/internal/adapters/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileManager_WriteFile(t *testing.T) {
	t.Parallel()

	fm := platform.NewFileManager()
	path := filepath.Join(t.TempDir(), "nested", "dir", "report.md")

	require.NoError(t, fm.WriteFile(path, []byte("first")))
	require.NoError(t, fm.WriteFile(path, []byte("second")))

	assert.True(t, fm.FileExists(path))

	data, err := fm.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestFileManager_Missing(t *testing.T) {
	t.Parallel()

	fm := platform.NewFileManager()
	missing := filepath.Join(t.TempDir(), "missing")

	assert.False(t, fm.FileExists(missing))

	_, err := fm.ReadFile(missing)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestMockFileManager(t *testing.T) {
	t.Parallel()

	fm := platform.NewMockFileManager()
	assert.False(t, fm.FileExists("/etc/os-release"))

	_, err := fm.ReadFile("/etc/os-release")
	require.ErrorIs(t, err, platform.ErrMockFileNotFound)

	require.NoError(t, fm.WriteFile("/etc/os-release", []byte("ID=arch")))
	require.NoError(t, fm.EnsureDir("/anything"))

	data, err := fm.ReadFile("/etc/os-release")
	require.NoError(t, err)
	assert.Equal(t, "ID=arch", string(data))
}
