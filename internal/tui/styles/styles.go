// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

// Package styles defines consistent visual styling for TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the styles used in the TUI.
type Styles struct {
	// Color palette
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color
	Muted     lipgloss.Color

	// Component styles
	Header      lipgloss.Style
	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style
	Footer      lipgloss.Style
	Title       lipgloss.Style
	Card        lipgloss.Style
	Selected    lipgloss.Style
	Unselected  lipgloss.Style
	Border      lipgloss.Style
	InputPrompt lipgloss.Style

	// Output line styles
	LogLine      lipgloss.Style
	StderrLine   lipgloss.Style
	ProgressLine lipgloss.Style
	NoticeLine   lipgloss.Style

	// Text styles (cached for performance)
	MutedText   lipgloss.Style
	PrimaryText lipgloss.Style
	SuccessText lipgloss.Style
	ErrorText   lipgloss.Style
	WarningText lipgloss.Style

	// Layout styles
	Container lipgloss.Style
}

// New creates a new Styles instance with default Tokyo Night theme.
func New() *Styles {
	// Tokyo Night color palette
	primary := lipgloss.Color("#7aa2f7")    // Blue
	secondary := lipgloss.Color("#bb9af7")  // Purple
	success := lipgloss.Color("#9ece6a")    // Green
	warning := lipgloss.Color("#e0af68")    // Yellow
	errorColor := lipgloss.Color("#f7768e") // Red
	info := lipgloss.Color("#7dcfff")       // Cyan
	muted := lipgloss.Color("#565f89")      // Gray

	background := lipgloss.Color("#1a1b26")
	foreground := lipgloss.Color("#c0caf5")

	return &Styles{
		Primary:   primary,
		Secondary: secondary,
		Success:   success,
		Warning:   warning,
		Error:     errorColor,
		Info:      info,
		Muted:     muted,

		Header: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), false, false, true, false).
			BorderForeground(primary),

		Tab: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),

		ActiveTab: lipgloss.NewStyle().
			Background(primary).
			Foreground(background).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(lipgloss.Color("240")),

		Title: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1).
			MarginRight(1),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color("#283457")).
			Foreground(foreground).
			Bold(true),

		Unselected: lipgloss.NewStyle().
			Foreground(foreground),

		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary),

		InputPrompt: lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true),

		LogLine: lipgloss.NewStyle().
			Foreground(foreground),

		StderrLine: lipgloss.NewStyle().
			Foreground(warning),

		ProgressLine: lipgloss.NewStyle().
			Foreground(info).
			Bold(true),

		NoticeLine: lipgloss.NewStyle().
			Foreground(secondary).
			Italic(true),

		MutedText: lipgloss.NewStyle().
			Foreground(muted),

		PrimaryText: lipgloss.NewStyle().
			Foreground(primary),

		SuccessText: lipgloss.NewStyle().
			Foreground(success),

		ErrorText: lipgloss.NewStyle().
			Foreground(errorColor),

		WarningText: lipgloss.NewStyle().
			Foreground(warning),

		Container: lipgloss.NewStyle().
			Padding(0, 1),
	}
}

// StatusIcon returns styled status icons.
func (s *Styles) StatusIcon(status string) string {
	style := s.Unselected

	var icon string

	switch status {
	case "success", "completed", "installed":
		style = s.SuccessText
		icon = "✓"
	case "error", "failed":
		style = s.ErrorText
		icon = "✗"
	case "warning":
		style = s.WarningText
		icon = "!"
	case "selected":
		style = s.PrimaryText
		icon = "●"
	case "pending":
		style = s.MutedText
		icon = "○"
	default:
		icon = "•"
	}

	return style.Render(icon)
}

// Keybinding returns styled keybinding text.
func (s *Styles) Keybinding(key, desc string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(s.Primary).
		Bold(true)

	return keyStyle.Render("["+key+"]") + " " + s.MutedText.Render(desc)
}
