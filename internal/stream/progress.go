// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package stream

import (
	"strings"

	"github.com/janderssonse/lian/internal/domain"
	"github.com/mattn/go-runewidth"
)

// LabelWidth bounds a free-text label, measured in terminal cells.
const LabelWidth = 45

const ellipsis = "…"

// ExtractProgress derives a ProgressInfo from one sanitized progress line.
// It never fails; unknown shapes degrade to a label-only result.
func ExtractProgress(line string) domain.ProgressInfo {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return domain.ProgressInfo{}
	}

	var info domain.ProgressInfo

	tokens := strings.Fields(trimmed)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		hasNext := i+1 < len(tokens)

		switch {
		case strings.HasPrefix(tok, "["), isPercent(tok):
			continue
		case isClock(tok):
			if info.ETA == "" {
				info.ETA = tok
			}
		case hasNext && isNumber(tok) && isSpeedUnit(tokens[i+1]):
			if info.Speed == "" {
				info.Speed = tok + " " + tokens[i+1]
			}
			i++
		case isSpeedUnit(tok):
			if info.Speed == "" {
				info.Speed = tok
			}
		case hasNext && isNumber(tok) && isSizeUnit(tokens[i+1]):
			if info.Size == "" {
				info.Size = tok + " " + tokens[i+1]
			}
			i++
		case isSizeUnit(tok):
			if info.Size == "" {
				info.Size = tok
			}
		case info.Label == "" && !isNumber(tok):
			info.Label = tok
		}
	}

	if info.Size == "" && info.Speed == "" && info.ETA == "" {
		info.Label = runewidth.Truncate(trimmed, LabelWidth, ellipsis)
	}

	return info
}

// FooterText renders p for the status line.
func FooterText(p domain.ProgressInfo) string {
	parts := make([]string, 0, 4)

	if p.Label != "" {
		parts = append(parts, p.Label)
	}

	if p.Speed != "" {
		parts = append(parts, "⬇ "+p.Speed)
	}

	if p.Size != "" {
		parts = append(parts, "/ "+p.Size)
	}

	if p.ETA != "" {
		parts = append(parts, "ETA "+p.ETA)
	}

	return strings.Join(parts, "  ")
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}

	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

func isPercent(s string) bool {
	digits, ok := strings.CutSuffix(s, "%")

	return ok && isDigits(digits)
}

// isClock matches H:MM and HH:MM style tokens.
func isClock(s string) bool {
	h, m, ok := strings.Cut(s, ":")

	return ok && isDigits(h) && isDigits(m) && len(m) == 2
}

func isSpeedUnit(s string) bool {
	return strings.Contains(s, "iB/s") || (strings.Contains(s, "iB/") && strings.HasSuffix(s, "s"))
}

func isSizeUnit(s string) bool {
	return !isSpeedUnit(s) && (strings.HasSuffix(s, "iB") || s == "B")
}
