// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

// Package platform provides host adapters: short-lived query commands, files
// and system detection.
package platform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// ExitCode returns the exit status carried by err, or -1 when err is not an
// exit error.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return -1
}

// CommandRunner runs short read-only commands and captures their output.
// Output is forced to the C locale so field names parse the same everywhere.
type CommandRunner struct {
	env []string
}

// NewCommandRunner creates a command runner. Extra env entries are appended to
// the inherited environment.
func NewCommandRunner(env ...string) *CommandRunner {
	return &CommandRunner{env: env}
}

// ExecuteWithOutput runs a command and returns its stdout.
func (r *CommandRunner) ExecuteWithOutput(ctx context.Context, name string, args ...string) (string, error) {
	// #nosec G204 - Query commands are fixed by the adapters calling this
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(append(os.Environ(), "LC_ALL=C"), r.env...)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return string(output), fmt.Errorf("%s %s: %w (stderr: %s)", name, strings.Join(args, " "), err, msg)
		}

		return string(output), fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}

	return string(output), nil
}

// CommandExists checks if a command is available on the system.
func (r *CommandRunner) CommandExists(name string) bool {
	_, err := exec.LookPath(name)

	return err == nil
}

// MockCommandRunner implements the CommandRunner port for testing.
type MockCommandRunner struct {
	mu       sync.Mutex
	outputs  map[string]string // command -> output
	errors   map[string]error  // command -> error
	existing map[string]bool
	calls    []string
}

// NewMockCommandRunner creates a new mock command runner for testing.
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{
		outputs:  make(map[string]string),
		errors:   make(map[string]error),
		existing: make(map[string]bool),
	}
}

// SetMockOutput sets the output for a full command line.
func (r *MockCommandRunner) SetMockOutput(command, output string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.outputs[command] = output
}

// SetMockError makes a full command line fail with err.
func (r *MockCommandRunner) SetMockError(command string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errors[command] = err
}

// SetCommandExists marks a binary as present on PATH.
func (r *MockCommandRunner) SetCommandExists(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.existing[name] = true
}

// Calls returns every command line executed so far.
func (r *MockCommandRunner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.calls...)
}

// ExecuteWithOutput returns preset output. Unknown commands return "".
func (r *MockCommandRunner) ExecuteWithOutput(_ context.Context, name string, args ...string) (string, error) {
	fullCommand := strings.TrimSpace(name + " " + strings.Join(args, " "))

	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, fullCommand)

	if err, exists := r.errors[fullCommand]; exists {
		return r.outputs[fullCommand], err
	}

	return r.outputs[fullCommand], nil
}

// CommandExists reports binaries registered with SetCommandExists.
func (r *MockCommandRunner) CommandExists(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.existing[name]
}
