// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

// Package models renders the TUI screens from orchestrator state. Renderers
// are pure: they read the state they are given and return a string.
package models

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/lian/internal/domain"
	"github.com/janderssonse/lian/internal/orchestrator"
	"github.com/janderssonse/lian/internal/stringutil"
	"github.com/janderssonse/lian/internal/tui/styles"
)

// UI constants for list display.
const (
	SelectedPrefix   = "❯ "
	UnselectedPrefix = "  "
)

// Frame carries the shared rendering inputs for one frame.
type Frame struct {
	Styles *styles.Styles
	Width  int
	// Height is the body height; Rows is what is left for a list or log
	// below the mode title.
	Height   int
	Rows     int
	Spinner  string
	Input    string
	Pager    string
	PagerPct float64
}

// RenderHeader draws the mode tabs with the detected manager on the right.
func RenderHeader(f Frame, active orchestrator.Mode, flavor domain.Flavor, busy bool) string {
	s := f.Styles
	tabs := make([]string, 0, len(orchestrator.Modes)+1)
	tabs = append(tabs, s.Title.Render("lian"))

	for _, m := range orchestrator.Modes {
		if m == active {
			tabs = append(tabs, s.ActiveTab.Render(m.String()))
		} else {
			tabs = append(tabs, s.Tab.Render(m.String()))
		}
	}

	left := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	right := s.MutedText.Render("detecting…")
	if flavor != "" {
		right = s.PrimaryText.Render(string(flavor))
	}

	if busy {
		right = f.Spinner + " " + right
	}

	gap := max(f.Width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)

	return s.Header.Width(f.Width).Render(left + strings.Repeat(" ", gap) + right)
}

// title renders the mode heading line.
func title(f Frame, text string, detail string) string {
	line := f.Styles.Title.Render(text)
	if detail != "" {
		line += "  " + f.Styles.MutedText.Render(detail)
	}

	return line + "\n"
}

// window returns the [start, end) range of a list of n items that keeps
// cursor visible in rows lines.
func window(cursor, n, rows int) (int, int) {
	if rows <= 0 || n == 0 {
		return 0, 0
	}

	start := 0
	if cursor >= rows {
		start = cursor - rows + 1
	}

	return start, min(start+rows, n)
}

// packageList renders search results with cursor and selection marks.
func packageList(f Frame, pkgs []domain.Package, cursor int, selected map[int]bool, rows int) string {
	s := f.Styles
	start, end := window(cursor, len(pkgs), rows)

	var b strings.Builder

	for i := start; i < end; i++ {
		p := pkgs[i]

		mark := s.StatusIcon("pending")
		if selected[i] {
			mark = s.StatusIcon("selected")
		}

		name := p.Name
		if p.Repo != "" {
			name = p.Repo + "/" + p.Name
		}

		row := mark + " " + name + " " + s.SuccessText.Render(p.Version)
		if p.Installed {
			row += " " + s.MutedText.Render("[installed]")
		}

		if p.Description != "" {
			room := f.Width - lipgloss.Width(row) - 6
			if room > 10 {
				row += "  " + s.MutedText.Render(stringutil.Truncate(p.Description, room))
			}
		}

		if i == cursor {
			b.WriteString(s.Selected.Render(SelectedPrefix + row))
		} else {
			b.WriteString(UnselectedPrefix + row)
		}

		b.WriteString("\n")
	}

	return b.String()
}

// outputWindow renders the visible part of a command's output buffer.
func outputWindow(f Frame, buf *orchestrator.Buffer, rows int) string {
	if buf == nil {
		return ""
	}

	s := f.Styles
	lines := buf.Window(rows)
	out := make([]string, 0, len(lines))

	for _, l := range lines {
		text := stringutil.Truncate(l.String(), f.Width-2)

		switch l.Kind {
		case orchestrator.LineStderr:
			out = append(out, s.StderrLine.Render(text))
		case orchestrator.LineProgress:
			out = append(out, s.ProgressLine.Render(text))
		case orchestrator.LineNotice:
			out = append(out, s.NoticeLine.Render(text))
		default:
			out = append(out, s.LogLine.Render(text))
		}
	}

	return strings.Join(out, "\n")
}
