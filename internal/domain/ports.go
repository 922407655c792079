// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"context"
	"time"
)

// ManagerDetector finds the package-management tool available on this host.
type ManagerDetector interface {
	// Detect returns the preferred flavor or ErrNoPackageManager.
	Detect(ctx context.Context) (Flavor, error)
}

// PackageQuerier runs read-only queries against the package database.
type PackageQuerier interface {
	// SearchSync searches the sync repositories.
	SearchSync(ctx context.Context, keyword string) ([]Package, error)

	// SearchLocal searches installed packages.
	SearchLocal(ctx context.Context, keyword string) ([]Package, error)

	// Explicit lists explicitly installed packages.
	Explicit(ctx context.Context) ([]Package, error)

	// Detail returns fields, files and directories of an installed package.
	Detail(ctx context.Context, name string) (PackageDetail, error)

	// PendingUpdates lists upgrades the next update would apply.
	PendingUpdates(ctx context.Context) ([]Update, error)

	// PreviewInstall describes what installing pkgs would bring in.
	PreviewInstall(ctx context.Context, pkgs []string) (Preview, error)

	// PreviewRemove describes what removing pkgs would take away.
	PreviewRemove(ctx context.Context, pkgs []string) (Preview, error)

	// Counts returns installed, explicit and upgradable totals.
	Counts(ctx context.Context) (Counts, error)
}

// AnalysisRequest is a single call to the analysis service.
type AnalysisRequest struct {
	Prompt      string
	Model       string
	Temperature float64
}

// Analyzer turns a prompt into analysis text.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (string, error)
}

// Report is an analysis ready to be persisted.
type Report struct {
	Content   string
	Distro    string
	Operation Operation
	CreatedAt time.Time
}

// ReportStore persists analysis reports.
type ReportStore interface {
	// Save writes the report and returns where it was stored.
	Save(ctx context.Context, r Report) (string, error)
}

// SystemProber collects host information.
type SystemProber interface {
	Probe(ctx context.Context) (SystemInfo, error)
}

// CommandRunner runs short, read-only commands.
type CommandRunner interface {
	// ExecuteWithOutput runs a command and returns its stdout.
	ExecuteWithOutput(ctx context.Context, name string, args ...string) (string, error)

	// CommandExists checks if a command is available on the system.
	CommandExists(name string) bool
}

// FileManager defines the file operations adapters rely on.
type FileManager interface {
	// FileExists checks if a file exists.
	FileExists(path string) bool

	// EnsureDir creates a directory and all parent directories if they don't exist.
	EnsureDir(path string) error

	// WriteFile replaces the file at path with data.
	WriteFile(path string, data []byte) error

	// ReadFile reads data from a file.
	ReadFile(path string) ([]byte, error)
}
