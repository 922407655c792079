// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package platform_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/janderssonse/lian/internal/adapters/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandRunner_ExecuteWithOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		cmd        string
		args       []string
		wantOutput string
		wantErr    bool
		wantCode   int
	}{
		{
			name:       "capture echo output",
			cmd:        "echo",
			args:       []string{"test output"},
			wantOutput: "test output\n",
		},
		{
			name:       "forces C locale",
			cmd:        "sh",
			args:       []string{"-c", "echo $LC_ALL"},
			wantOutput: "C\n",
		},
		{
			name:       "stdout survives failure",
			cmd:        "sh",
			args:       []string{"-c", "echo partial; echo broken >&2; exit 2"},
			wantOutput: "partial\n",
			wantErr:    true,
			wantCode:   2,
		},
		{
			name:     "non-existent command",
			cmd:      "nonexistent_command_xyz",
			wantErr:  true,
			wantCode: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runner := platform.NewCommandRunner()
			output, err := runner.ExecuteWithOutput(context.Background(), tt.cmd, tt.args...)

			assert.Equal(t, tt.wantOutput, output)

			if !tt.wantErr {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, platform.ExitCode(err))
		})
	}
}

func TestCommandRunner_StderrInError(t *testing.T) {
	t.Parallel()

	_, err := platform.NewCommandRunner().ExecuteWithOutput(context.Background(), "sh", "-c", "echo 'error: target not found: x' >&2; exit 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stderr: error: target not found: x")
}

func TestCommandRunner_ExtraEnv(t *testing.T) {
	t.Parallel()

	output, err := platform.NewCommandRunner("LIAN_TEST_VALUE=42").ExecuteWithOutput(context.Background(), "sh", "-c", "echo $LIAN_TEST_VALUE")
	require.NoError(t, err)
	assert.Equal(t, "42", strings.TrimSpace(output))
}

func TestCommandRunner_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := platform.NewCommandRunner().ExecuteWithOutput(ctx, "sleep", "10")

	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestCommandRunner_CommandExists(t *testing.T) {
	t.Parallel()

	runner := platform.NewCommandRunner()
	assert.True(t, runner.CommandExists("sh"))
	assert.False(t, runner.CommandExists("nonexistent_command_xyz"))
}

func TestMockCommandRunner(t *testing.T) {
	t.Parallel()

	runner := platform.NewMockCommandRunner()
	runner.SetMockOutput("pacman -Q", "bash 5.2\n")
	runner.SetMockError("pacman -Qu", errors.New("exit status 1"))

	out, err := runner.ExecuteWithOutput(context.Background(), "pacman", "-Q")
	require.NoError(t, err)
	assert.Equal(t, "bash 5.2\n", out)

	_, err = runner.ExecuteWithOutput(context.Background(), "pacman", "-Qu")
	require.Error(t, err)

	out, err = runner.ExecuteWithOutput(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Empty(t, out)

	assert.Equal(t, []string{"pacman -Q", "pacman -Qu", "unknown"}, runner.Calls())
	assert.False(t, runner.CommandExists("pacman"))
}
