// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package pacman

import (
	"context"

	"github.com/janderssonse/lian/internal/domain"
	"golang.org/x/sync/errgroup"
)

// PreviewInstall implements domain.PackageQuerier. Packages the sync database
// does not know are reported as missing, not as an error.
func (c *Client) PreviewInstall(ctx context.Context, pkgs []string) (domain.Preview, error) {
	if len(pkgs) == 0 {
		return domain.Preview{}, domain.ErrNoPackages
	}

	items := c.describe(ctx, pkgs, "-Si")

	return domain.Preview{Operation: domain.OpInstall, Items: items, Targets: append([]string(nil), pkgs...)}, nil
}

// PreviewRemove implements domain.PackageQuerier. Targets lists everything
// the removal would take, orphaned dependencies included.
func (c *Client) PreviewRemove(ctx context.Context, pkgs []string) (domain.Preview, error) {
	if len(pkgs) == 0 {
		return domain.Preview{}, domain.ErrNoPackages
	}

	preview := domain.Preview{Operation: domain.OpRemove, Items: c.describe(ctx, pkgs, "-Qi")}

	for _, flag := range []string{"-Rns", "-Rn"} {
		args := append([]string{flag, "--print"}, pkgs...)

		out, err := c.runner.ExecuteWithOutput(ctx, pacmanBin, args...)
		if err == nil {
			preview.Targets = nonEmptyLines(out)

			break
		}
	}

	return preview, nil
}

// describe fetches one info record per package, a few at a time, keeping the
// input order.
func (c *Client) describe(ctx context.Context, pkgs []string, flag string) []domain.PreviewItem {
	items := make([]domain.PreviewItem, len(pkgs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(previewWorkers)

	for i, pkg := range pkgs {
		g.Go(func() error {
			out, err := c.runner.ExecuteWithOutput(gctx, pacmanBin, flag, pkg)
			if err != nil {
				items[i] = domain.PreviewItem{Name: pkg, Missing: true}

				return nil
			}

			items[i] = previewItem(pkg, ParseDetail(out))

			return nil
		})
	}

	_ = g.Wait()

	return items
}

func previewItem(pkg string, fields []domain.Field) domain.PreviewItem {
	detail := domain.PackageDetail{Fields: fields}
	item := domain.PreviewItem{Name: pkg}

	if v, ok := detail.Lookup(FieldName); ok {
		item.Name = v
	}

	item.Version, _ = detail.Lookup(FieldVersion)
	item.DownloadSize, _ = detail.Lookup(FieldDownloadSize)
	item.InstalledSize, _ = detail.Lookup(FieldInstalledSize)

	if v, ok := detail.Lookup(FieldDepends); ok {
		item.Depends = splitList(v)
	}

	if v, ok := detail.Lookup(FieldRequiredBy); ok {
		item.RequiredBy = splitList(v)
	}

	return item
}
