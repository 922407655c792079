// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package pacman_test

import (
	"context"
	"testing"

	"github.com/janderssonse/lian/internal/adapters/pacman"
	"github.com/janderssonse/lian/internal/adapters/platform"
	"github.com/janderssonse/lian/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PreviewInstall(t *testing.T) {
	t.Parallel()

	runner := platform.NewMockCommandRunner()
	runner.SetMockOutput("pacman -Si ripgrep", `Name            : ripgrep
Version         : 14.1.1-1
Depends On      : gcc-libs  pcre2
Download Size   : 1.90 MiB
Installed Size  : 5.11 MiB
`)
	runner.SetMockError("pacman -Si aur-only", exitErr(t, "1"))

	preview, err := pacman.NewClient(runner, domain.FlavorPacman).PreviewInstall(context.Background(), []string{"ripgrep", "aur-only"})
	require.NoError(t, err)

	assert.Equal(t, domain.OpInstall, preview.Operation)
	assert.Equal(t, []string{"ripgrep", "aur-only"}, preview.Targets)
	assert.Equal(t, []domain.PreviewItem{
		{Name: "ripgrep", Version: "14.1.1-1", DownloadSize: "1.90 MiB", InstalledSize: "5.11 MiB", Depends: []string{"gcc-libs", "pcre2"}},
		{Name: "aur-only", Missing: true},
	}, preview.Items)

	_, err = pacman.NewClient(runner, domain.FlavorPacman).PreviewInstall(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrNoPackages)
}

func TestClient_PreviewRemove(t *testing.T) {
	t.Parallel()

	info := `Name            : htop
Version         : 3.3.0-3
Required By     : None
Installed Size  : 440.00 KiB
`

	t.Run("recursive print", func(t *testing.T) {
		t.Parallel()

		runner := platform.NewMockCommandRunner()
		runner.SetMockOutput("pacman -Qi htop", info)
		runner.SetMockOutput("pacman -Rns --print htop", "htop-3.3.0-3\nlibnl-3.11.0-1\n")

		preview, err := pacman.NewClient(runner, domain.FlavorPacman).PreviewRemove(context.Background(), []string{"htop"})
		require.NoError(t, err)

		assert.Equal(t, []string{"htop-3.3.0-3", "libnl-3.11.0-1"}, preview.Targets)
		require.Len(t, preview.Items, 1)
		assert.Empty(t, preview.Items[0].RequiredBy)
		assert.Equal(t, "440.00 KiB", preview.Items[0].InstalledSize)
	})

	t.Run("falls back to non-recursive", func(t *testing.T) {
		t.Parallel()

		runner := platform.NewMockCommandRunner()
		runner.SetMockOutput("pacman -Qi htop", info)
		runner.SetMockError("pacman -Rns --print htop", exitErr(t, "1"))
		runner.SetMockOutput("pacman -Rn --print htop", "htop-3.3.0-3\n")

		preview, err := pacman.NewClient(runner, domain.FlavorPacman).PreviewRemove(context.Background(), []string{"htop"})
		require.NoError(t, err)
		assert.Equal(t, []string{"htop-3.3.0-3"}, preview.Targets)
	})
}
