// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

// Package stream turns raw child-process output into discrete log and progress events.
package stream

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize removes ANSI escape sequences (CSI, OSC, DCS and the short ESC
// forms) and control characters from s and collapses runs of blank lines
// into a single blank line.
//
// A bare carriage return becomes a line break unless it is followed by a
// newline or the output already ends with one.
func Sanitize(s string) string {
	var out strings.Builder

	plain := ansi.Strip(s)
	out.Grow(len(plain))

	runes := []rune(plain)
	for i, r := range runes {
		switch {
		case r == '\r':
			next := i+1 < len(runes) && runes[i+1] == '\n'
			if !next && !strings.HasSuffix(out.String(), "\n") {
				out.WriteByte('\n')
			}
		case r == '\n' || r == '\t':
			out.WriteRune(r)
		case unicode.IsControl(r):
		default:
			out.WriteRune(r)
		}
	}

	return collapseBlank(out.String())
}

// collapseBlank joins lines, keeping at most one blank line in a row.
// A trailing newline does not produce an extra empty line.
func collapseBlank(s string) string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return ""
	}

	lines := strings.Split(s, "\n")
	kept := lines[:0]
	prevEmpty := false

	for _, line := range lines {
		empty := strings.TrimSpace(line) == ""
		if empty && prevEmpty {
			continue
		}

		kept = append(kept, line)
		prevEmpty = empty
	}

	return strings.Join(kept, "\n")
}
