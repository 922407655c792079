// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

// Package testutil provides testify mocks of the domain ports.
package testutil

import (
	"context"

	"github.com/janderssonse/lian/internal/domain"
	"github.com/stretchr/testify/mock"
)

var (
	_ domain.PackageQuerier = (*MockPackageQuerier)(nil)
	_ domain.Analyzer       = (*MockAnalyzer)(nil)
)

// MockPackageQuerier mocks the PackageQuerier port for testing.
type MockPackageQuerier struct {
	mock.Mock
}

// SearchSync mocks a repository search.
func (m *MockPackageQuerier) SearchSync(ctx context.Context, keyword string) ([]domain.Package, error) {
	args := m.Called(ctx, keyword)

	return packages(args.Get(0)), args.Error(1)
}

// SearchLocal mocks an installed-package search.
func (m *MockPackageQuerier) SearchLocal(ctx context.Context, keyword string) ([]domain.Package, error) {
	args := m.Called(ctx, keyword)

	return packages(args.Get(0)), args.Error(1)
}

// Explicit mocks listing explicitly installed packages.
func (m *MockPackageQuerier) Explicit(ctx context.Context) ([]domain.Package, error) {
	args := m.Called(ctx)

	return packages(args.Get(0)), args.Error(1)
}

// Detail mocks a package detail query.
func (m *MockPackageQuerier) Detail(ctx context.Context, name string) (domain.PackageDetail, error) {
	args := m.Called(ctx, name)

	detail, _ := args.Get(0).(domain.PackageDetail)

	return detail, args.Error(1)
}

// PendingUpdates mocks the pending upgrade list.
func (m *MockPackageQuerier) PendingUpdates(ctx context.Context) ([]domain.Update, error) {
	args := m.Called(ctx)

	updates, _ := args.Get(0).([]domain.Update)

	return updates, args.Error(1)
}

// PreviewInstall mocks an install preview.
func (m *MockPackageQuerier) PreviewInstall(ctx context.Context, pkgs []string) (domain.Preview, error) {
	args := m.Called(ctx, pkgs)

	preview, _ := args.Get(0).(domain.Preview)

	return preview, args.Error(1)
}

// PreviewRemove mocks a remove preview.
func (m *MockPackageQuerier) PreviewRemove(ctx context.Context, pkgs []string) (domain.Preview, error) {
	args := m.Called(ctx, pkgs)

	preview, _ := args.Get(0).(domain.Preview)

	return preview, args.Error(1)
}

// Counts mocks the dashboard totals.
func (m *MockPackageQuerier) Counts(ctx context.Context) (domain.Counts, error) {
	args := m.Called(ctx)

	counts, _ := args.Get(0).(domain.Counts)

	return counts, args.Error(1)
}

// packages accepts a nil return value set up with On(...).Return(nil, err).
func packages(v any) []domain.Package {
	pkgs, _ := v.([]domain.Package)

	return pkgs
}

// MockAnalyzer mocks the Analyzer port for testing.
type MockAnalyzer struct {
	mock.Mock
}

// Analyze mocks an analysis request.
func (m *MockAnalyzer) Analyze(ctx context.Context, req domain.AnalysisRequest) (string, error) {
	args := m.Called(ctx, req)

	return args.String(0), args.Error(1)
}
