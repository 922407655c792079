// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package domain_test

import (
	"errors"
	"fmt"
	"os/exec"
	"testing"

	"github.com/janderssonse/lian/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnError(t *testing.T) {
	t.Parallel()

	err := &domain.SpawnError{Argv: []string{"pacman", "-Syu"}, Err: exec.ErrNotFound}

	assert.Equal(t, "failed to start pacman: executable file not found in $PATH", err.Error())
	require.ErrorIs(t, err, exec.ErrNotFound)

	var spawnErr *domain.SpawnError
	require.ErrorAs(t, errors.Join(errors.New("outer"), err), &spawnErr)
	assert.Equal(t, []string{"pacman", "-Syu"}, spawnErr.Argv)

	empty := &domain.SpawnError{Err: exec.ErrNotFound}
	assert.Contains(t, empty.Error(), "<empty>")
}

func TestGetErrorInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		message string
	}{
		{name: "nil error", err: nil, message: ""},
		{name: "lock held", err: errors.New("error: failed to init transaction (unable to lock database)"), message: "Package database is locked"},
		{name: "permission", err: errors.New("exec: permission denied"), message: "Permission denied"},
		{name: "network", err: errors.New("failed retrieving file 'core.db' from mirror"), message: "Network connection failed"},
		{name: "missing target", err: errors.New("error: target not found: nosuchpkg"), message: "Target not found"},
		{name: "conflict", err: errors.New("unresolvable package conflicts detected"), message: "Dependency conflict"},
		{name: "analysis key", err: domain.ErrNotConfigured, message: "Analysis is not configured"},
		{name: "generic", err: errors.New("boom"), message: "Operation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := domain.GetErrorInfo(tt.err, false)
			assert.Equal(t, tt.message, info.Message)
		})
	}
}

func TestFormatErrorMessage(t *testing.T) {
	t.Parallel()

	err := errors.New("error: target not found: nosuchpkg")

	short := domain.FormatErrorMessage(err, false)
	assert.Equal(t, "✗ Target not found (Check the package name spelling)", short)
	assert.NotContains(t, short, "Technical details")

	long := domain.FormatErrorMessage(err, true)
	assert.Contains(t, long, "Technical details: error: target not found: nosuchpkg")
	assert.Contains(t, long, "Suggestions:")
	assert.Contains(t, long, "• Check the package name spelling")
}

func TestExitErrorFormatting(t *testing.T) {
	t.Parallel()

	cause := errors.New("permission denied")

	tests := []struct {
		name string
		err  *domain.ExitError
		want string
	}{
		{"message only", domain.NewExitError(2, "lian needs an interactive terminal", nil), "lian needs an interactive terminal"},
		{"with cause", domain.NewExitError(3, "Failed to load configuration", cause), "Failed to load configuration: permission denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.err.Error())
		})
	}

	var exitErr *domain.ExitError

	wrapped := fmt.Errorf("run: %w", domain.NewExitError(3, "config", cause))
	require.ErrorAs(t, wrapped, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
	assert.ErrorIs(t, wrapped, cause)
}
