// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package supervisor

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ProcessFinder reports whether a process with the given name is running.
type ProcessFinder interface {
	Running(name string) (bool, error)
}

// ProcScanner scans /proc/<pid>/comm, skipping the current process.
type ProcScanner struct {
	// Root defaults to /proc.
	Root string
}

// Running implements ProcessFinder.
func (p ProcScanner) Running(name string) (bool, error) {
	root := p.Root
	if root == "" {
		root = "/proc"
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return false, fmt.Errorf("failed to scan processes: %w", err)
	}

	self := os.Getpid()

	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil || pid == self {
			continue
		}

		comm, err := os.ReadFile(filepath.Join(root, entry.Name(), "comm"))
		if err != nil {
			// The process exited while we were scanning.
			continue
		}

		if strings.TrimSpace(string(comm)) == name {
			return true, nil
		}
	}

	return false, nil
}

// GroupLive reports whether any member of process group pgid is still
// running. Zombies and dead entries do not count: an orphan that a
// non-reaping init never collects would otherwise keep the group alive.
func (p ProcScanner) GroupLive(pgid int) (bool, error) {
	root := p.Root
	if root == "" {
		root = "/proc"
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return false, fmt.Errorf("failed to scan processes: %w", err)
	}

	for _, entry := range entries {
		if _, err := strconv.Atoi(entry.Name()); err != nil {
			continue
		}

		stat, err := os.ReadFile(filepath.Join(root, entry.Name(), "stat"))
		if err != nil {
			continue
		}

		state, group, ok := parseStat(string(stat))
		if ok && group == pgid && state != "Z" && state != "X" {
			return true, nil
		}
	}

	return false, nil
}

// parseStat extracts the state and process group from a /proc/<pid>/stat
// line. comm may contain spaces and parentheses, so fields are read after
// the last ')'.
func parseStat(stat string) (string, int, bool) {
	end := strings.LastIndexByte(stat, ')')
	if end < 0 {
		return "", 0, false
	}

	// state ppid pgrp ...
	fields := strings.Fields(stat[end+1:])
	if len(fields) < 3 {
		return "", 0, false
	}

	group, err := strconv.Atoi(fields[2])
	if err != nil {
		return "", 0, false
	}

	return fields[0], group, true
}
