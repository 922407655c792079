// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package platform_test

import (
	"context"
	"testing"

	"github.com/janderssonse/lian/internal/adapters/platform"
	"github.com/janderssonse/lian/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemDetector_Detect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		installed []string
		want      domain.Flavor
		wantErr   error
	}{
		{name: "paru preferred over everything", installed: []string{"pacman", "yay", "paru"}, want: domain.FlavorParu},
		{name: "yay preferred over pacman", installed: []string{"pacman", "yay"}, want: domain.FlavorYay},
		{name: "plain pacman", installed: []string{"pacman"}, want: domain.FlavorPacman},
		{name: "nothing found", installed: []string{"apt"}, wantErr: domain.ErrNoPackageManager},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runner := platform.NewMockCommandRunner()
			for _, name := range tt.installed {
				runner.SetCommandExists(name)
			}

			got, err := platform.NewSystemDetector(runner, platform.NewMockFileManager()).Detect(context.Background())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSystemDetector_Probe(t *testing.T) {
	t.Parallel()

	runner := platform.NewMockCommandRunner()
	runner.SetMockOutput("uname -r", "6.12.4-arch1-1\n")

	files := platform.NewMockFileManager()
	files.SetMockFile("/etc/os-release", []byte(`NAME="Arch Linux"
PRETTY_NAME="Arch Linux"
ID=arch
BUILD_ID=rolling
`))
	files.SetMockFile("/proc/cpuinfo", []byte(`processor	: 0
model name	: AMD Ryzen 7 7840U w/ Radeon 780M Graphics
processor	: 1
model name	: AMD Ryzen 7 7840U w/ Radeon 780M Graphics
`))
	files.SetMockFile("/proc/meminfo", []byte("MemTotal:       16777216 kB\nMemFree:         1024 kB\n"))

	info, err := platform.NewSystemDetector(runner, files).Probe(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.SystemInfo{
		Distro: "Arch Linux",
		Kernel: "6.12.4-arch1-1",
		CPU:    "AMD Ryzen 7 7840U w/ Radeon 780M Graphics",
		Memory: "16 GiB",
	}, info)
}

func TestSystemDetector_ProbeFallbacks(t *testing.T) {
	t.Parallel()

	runner := platform.NewMockCommandRunner()
	runner.SetMockError("uname -r", assert.AnError)

	files := platform.NewMockFileManager()
	files.SetMockFile("/etc/lsb-release", []byte("DISTRIB_ID=EndeavourOS\nDISTRIB_DESCRIPTION=\"EndeavourOS Linux\"\n"))
	files.SetMockFile("/proc/meminfo", []byte("MemTotal: lots\n"))

	info, err := platform.NewSystemDetector(runner, files).Probe(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "EndeavourOS Linux", info.Distro)
	assert.Equal(t, "unknown", info.Kernel)
	assert.Equal(t, "unknown", info.CPU)
	assert.Equal(t, "unknown", info.Memory)
	assert.Equal(t, "unknown", domain.SystemInfo{}.DistroOrUnknown())
}
