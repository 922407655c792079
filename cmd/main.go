// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

// Package main provides the CLI entry point for lian.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/janderssonse/lian/internal/cli"
	"github.com/janderssonse/lian/internal/domain"
)

// Exit codes following Unix conventions. The CLI returns the same codes
// through domain.ExitError.
const (
	ExitSuccess         = cli.ExitSuccess         // Command completed successfully
	ExitGeneralError    = cli.ExitGeneralError    // General errors
	ExitUsageError      = cli.ExitUsageError      // Invalid arguments, or no terminal
	ExitConfigError     = cli.ExitConfigError     // Configuration issues
	ExitPermissionError = cli.ExitPermissionError // Permission denied
	ExitSystemError     = cli.ExitSystemError     // Lock file or filesystem issues
	ExitAlreadyRunning  = 15                      // Another lian holds the instance lock
)

func main() {
	os.Exit(run())
}

func run() int {
	// Two instances would fight over the package database lock.
	lockPath := filepath.Join(os.TempDir(), "lian.lock")
	lock := flock.New(lockPath)

	locked, err := lock.TryLock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to acquire process lock: %v\n", err)

		return ExitSystemError
	}

	if !locked {
		fmt.Fprintf(os.Stderr, "Another lian instance is already running\n")

		return ExitAlreadyRunning
	}

	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to release process lock: %v\n", unlockErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := cli.App().Run(ctx, os.Args); err != nil {
		exitErr := &domain.ExitError{}
		if errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "%s\n", exitErr.Error())

			return exitErr.Code
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return ExitUsageError
	}

	return ExitSuccess
}
