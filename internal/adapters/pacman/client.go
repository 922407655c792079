// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

// Package pacman queries the pacman database through the pacman, paru or yay
// command-line tools.
package pacman

import (
	"context"
	"fmt"
	"strings"

	"github.com/janderssonse/lian/internal/adapters/platform"
	"github.com/janderssonse/lian/internal/domain"
	"golang.org/x/sync/errgroup"
)

const (
	pacmanBin       = "pacman"
	checkupdatesBin = "checkupdates"

	// pacman exits 1 when a search matches nothing.
	exitNoMatch = 1
	// checkupdates exits 2 when there is nothing to update.
	exitNoUpdates = 2

	previewWorkers = 4
)

// Client implements domain.PackageQuerier. Sync searches go through the
// detected flavor so AUR helpers include the AUR; everything else asks pacman.
type Client struct {
	runner domain.CommandRunner
	flavor domain.Flavor
}

var _ domain.PackageQuerier = (*Client)(nil)

// NewClient creates a query client for flavor.
func NewClient(runner domain.CommandRunner, flavor domain.Flavor) *Client {
	if !flavor.Valid() {
		flavor = domain.FlavorPacman
	}

	return &Client{runner: runner, flavor: flavor}
}

// Flavor returns the tool used for sync searches.
func (c *Client) Flavor() domain.Flavor {
	return c.flavor
}

// SearchSync implements domain.PackageQuerier.
func (c *Client) SearchSync(ctx context.Context, keyword string) ([]domain.Package, error) {
	return c.search(ctx, c.flavor.Binary(), "-Ss", keyword, false)
}

// SearchLocal implements domain.PackageQuerier.
func (c *Client) SearchLocal(ctx context.Context, keyword string) ([]domain.Package, error) {
	return c.search(ctx, pacmanBin, "-Qs", keyword, true)
}

func (c *Client) search(ctx context.Context, bin, flag, keyword string, local bool) ([]domain.Package, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, nil
	}

	out, err := c.runner.ExecuteWithOutput(ctx, bin, flag, keyword)
	if err != nil {
		if platform.ExitCode(err) == exitNoMatch {
			return nil, nil
		}

		return nil, fmt.Errorf("search %q failed: %w", keyword, err)
	}

	return ParseSearch(out, local), nil
}

// Explicit implements domain.PackageQuerier.
func (c *Client) Explicit(ctx context.Context) ([]domain.Package, error) {
	out, err := c.runner.ExecuteWithOutput(ctx, pacmanBin, "-Qe")
	if err != nil {
		return nil, fmt.Errorf("failed to list explicit packages: %w", err)
	}

	return ParseNameVersion(out), nil
}

// Detail implements domain.PackageQuerier. Installed packages come from the
// local database with their file list; others fall back to the sync database.
func (c *Client) Detail(ctx context.Context, name string) (domain.PackageDetail, error) {
	detail := domain.PackageDetail{Name: name}

	var (
		info    string
		infoErr error
		list    string
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		info, infoErr = c.runner.ExecuteWithOutput(gctx, pacmanBin, "-Qi", name)

		return nil
	})
	g.Go(func() error {
		// Not installed packages have no file list; that is not an error.
		list, _ = c.runner.ExecuteWithOutput(gctx, pacmanBin, "-Ql", name)

		return nil
	})

	_ = g.Wait()

	if infoErr != nil {
		out, err := c.runner.ExecuteWithOutput(ctx, pacmanBin, "-Si", name)
		if err != nil {
			return detail, fmt.Errorf("no details for %s: %w", name, err)
		}

		info = out
	}

	detail.Fields = ParseDetail(info)
	detail.Files, detail.Dirs = ParseFileList(list)

	return detail, nil
}

// PendingUpdates implements domain.PackageQuerier. checkupdates avoids
// touching the live sync database; -Qu is the fallback when it is missing.
func (c *Client) PendingUpdates(ctx context.Context) ([]domain.Update, error) {
	if c.runner.CommandExists(checkupdatesBin) {
		out, err := c.runner.ExecuteWithOutput(ctx, checkupdatesBin)

		switch {
		case err == nil:
			return ParseUpdates(out), nil
		case platform.ExitCode(err) == exitNoUpdates:
			return nil, nil
		}
	}

	out, err := c.runner.ExecuteWithOutput(ctx, c.flavor.Binary(), "-Qu")
	if err != nil {
		if platform.ExitCode(err) == exitNoMatch {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to list pending updates: %w", err)
	}

	return ParseUpdates(out), nil
}

// Counts implements domain.PackageQuerier.
func (c *Client) Counts(ctx context.Context) (domain.Counts, error) {
	var counts domain.Counts

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		out, err := c.runner.ExecuteWithOutput(gctx, pacmanBin, "-Q")
		if err != nil {
			return fmt.Errorf("failed to count packages: %w", err)
		}

		counts.Installed = countLines(out)

		return nil
	})
	g.Go(func() error {
		out, err := c.runner.ExecuteWithOutput(gctx, pacmanBin, "-Qe")
		if err != nil {
			return fmt.Errorf("failed to count explicit packages: %w", err)
		}

		counts.Explicit = countLines(out)

		return nil
	})
	g.Go(func() error {
		updates, err := c.PendingUpdates(gctx)
		if err != nil {
			return err
		}

		counts.Upgrades = len(updates)

		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.Counts{}, err
	}

	return counts, nil
}
