// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package supervisor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

const elevatedRemoveTimeout = 5 * time.Second

// LockGuard removes a stale lock file the supervised tool may leave behind
// when it is killed before it can clean up.
type LockGuard struct {
	Path   string
	Tool   string
	Finder ProcessFinder
	Logger *zap.Logger

	// ElevatedRemove runs when a plain remove is denied. Defaults to sudo -n rm -f.
	ElevatedRemove func(ctx context.Context, path string) error
}

// Cleanup removes the lock file unless another instance of the tool is
// running. It reports whether a file was removed.
func (g *LockGuard) Cleanup(ctx context.Context) (bool, error) {
	if g == nil || g.Path == "" {
		return false, nil
	}

	logger := g.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := os.Stat(g.Path); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	finder := g.Finder
	if finder == nil {
		finder = ProcScanner{}
	}

	running, err := finder.Running(g.Tool)
	if err != nil {
		// Without a reliable scan the lock may belong to someone else.
		return false, err
	}

	if running {
		logger.Info("lock kept, tool still running", zap.String("path", g.Path), zap.String("tool", g.Tool))

		return false, nil
	}

	err = os.Remove(g.Path)

	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case errors.Is(err, fs.ErrPermission):
		remove := g.ElevatedRemove
		if remove == nil {
			remove = sudoRemove
		}

		if err := remove(ctx, g.Path); err != nil {
			return false, fmt.Errorf("failed to remove lock %s: %w", g.Path, err)
		}
	default:
		return false, fmt.Errorf("failed to remove lock %s: %w", g.Path, err)
	}

	logger.Warn("removed stale lock", zap.String("path", g.Path))

	return true, nil
}

func sudoRemove(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, elevatedRemoveTimeout)
	defer cancel()

	// #nosec G204 - path comes from configuration, not user input at runtime
	out, err := exec.CommandContext(ctx, "sudo", "-n", "rm", "-f", path).CombinedOutput()
	if err != nil {
		return fmt.Errorf("sudo rm failed: %w (%s)", err, out)
	}

	return nil
}
