// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// GlamourMarkdown renders markdown with glamour's dark style wrapped to
// width. It falls back to the raw text if rendering fails.
func GlamourMarkdown(markdown string, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}

	out, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}

	return strings.TrimRight(out, "\n")
}
