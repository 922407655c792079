// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"fmt"
	"strings"

	"github.com/janderssonse/lian/internal/domain"
	"github.com/janderssonse/lian/internal/orchestrator"
	"github.com/janderssonse/lian/internal/stringutil"
	"github.com/janderssonse/lian/internal/tui/styles"
)

// Query renders the Query mode.
func Query(f Frame, q *orchestrator.QueryState) string {
	s := f.Styles

	switch q.Phase {
	case orchestrator.PhaseDetail:
		head := title(f, "Query", q.Detail.Name)
		if q.DetailLoading {
			return head + f.Spinner + " Loading package details…"
		}

		return head + f.Pager
	case orchestrator.PhaseResults:
		head := title(f, "Query", fmt.Sprintf("%d packages", len(q.Results)))

		return head + f.Input + "\n" + packageList(f, q.Results, q.Cursor, nil, f.Rows-1)
	}

	head := title(f, "Query", "")
	out := head + f.Input + "\n"

	if len(q.Results) == 0 {
		return out + s.MutedText.Render("No packages found")
	}

	return out + packageList(f, q.Results, -1, nil, f.Rows-1)
}

// DetailText formats a package detail for the pager.
func DetailText(s *styles.Styles, d domain.PackageDetail) string {
	var b strings.Builder

	width := 0
	for _, fl := range d.Fields {
		width = max(width, stringutil.Width(fl.Key))
	}

	for _, fl := range d.Fields {
		pad := strings.Repeat(" ", width-stringutil.Width(fl.Key))
		fmt.Fprintf(&b, "%s%s : %s\n", s.PrimaryText.Render(fl.Key), pad, fl.Value)
	}

	if len(d.Files) > 0 {
		fmt.Fprintf(&b, "\n%s\n", s.Title.Render(fmt.Sprintf("Files (%d)", len(d.Files))))

		for _, file := range d.Files {
			b.WriteString("  " + file + "\n")
		}
	}

	if len(d.Dirs) > 0 {
		fmt.Fprintf(&b, "\n%s\n", s.Title.Render(fmt.Sprintf("Directories (%d)", len(d.Dirs))))

		for _, dir := range d.Dirs {
			b.WriteString("  " + s.MutedText.Render(dir) + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
