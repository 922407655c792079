// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

// Package report stores analysis results as dated markdown files.
package report

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/janderssonse/lian/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Store implements domain.ReportStore under a root directory laid out as
// YYYY/MM/DD/HH-MM-<operation>.md.
type Store struct {
	root   string
	files  domain.FileManager
	logger *zap.Logger
}

var _ domain.ReportStore = (*Store)(nil)

// NewStore creates a report store rooted at root.
func NewStore(root string, files domain.FileManager, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{root: root, files: files, logger: logger}
}

// PathFor returns the file a report created at ts for op would be written to,
// before collision handling.
func (s *Store) PathFor(op domain.Operation, ts time.Time) string {
	return filepath.Join(s.root,
		ts.Format("2006"), ts.Format("01"), ts.Format("02"),
		fmt.Sprintf("%s-%s.md", ts.Format("15-04"), op))
}

// Save implements domain.ReportStore. Two reports in the same minute get a
// numeric suffix rather than overwriting each other.
func (s *Store) Save(ctx context.Context, r domain.Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	path := s.PathFor(r.Operation, r.CreatedAt)
	if err := s.files.EnsureDir(filepath.Dir(path)); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	base := strings.TrimSuffix(path, ".md")
	for n := 2; s.files.FileExists(path); n++ {
		path = fmt.Sprintf("%s-%d.md", base, n)
	}

	if err := s.files.WriteFile(path, []byte(Render(r))); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	s.logger.Info("report saved", zap.String("path", path), zap.Stringer("operation", r.Operation))

	return path, nil
}

// Render formats a report as markdown with a short metadata header.
func Render(r domain.Report) string {
	title := cases.Title(language.English).String(r.Operation.String())

	var b strings.Builder

	fmt.Fprintf(&b, "# %s analysis\n\n", title)
	fmt.Fprintf(&b, "- **Date:** %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- **System:** %s\n", orUnknown(r.Distro))
	fmt.Fprintf(&b, "- **Operation:** %s\n\n", r.Operation)
	b.WriteString("---\n\n")
	b.WriteString(strings.TrimSpace(r.Content))
	b.WriteString("\n")

	return b.String()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}

	return s
}
