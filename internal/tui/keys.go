// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/lian/internal/orchestrator"
)

// KeyMap defines the key bindings. Raw keys never reach the orchestrator;
// they are translated to orchestrator.Action values here.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Confirm    key.Binding
	Back       key.Binding
	Select     key.Binding
	ToggleView key.Binding
	Retry      key.Binding
	Analyze    key.Binding
	Save       key.Binding
	Interrupt  key.Binding
	Quit       key.Binding
	Help       key.Binding

	// Mode shortcuts, usable whenever no text input has focus.
	Update   key.Binding
	Install  key.Binding
	Remove   key.Binding
	Query    key.Binding
	Settings key.Binding
	Shell    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		ToggleView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "log/analysis"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Analyze: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "analyze"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Interrupt: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "cancel/quit"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Update: key.NewBinding(
			key.WithKeys("U"),
			key.WithHelp("U", "update"),
		),
		Install: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "install"),
		),
		Remove: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "remove"),
		),
		Query: key.NewBinding(
			key.WithKeys("Q"),
			key.WithHelp("Q", "query"),
		),
		Settings: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "settings"),
		),
		Shell: key.NewBinding(
			key.WithKeys("!"),
			key.WithHelp("!", "shell"),
		),
	}
}

// ModeFor returns the mode a shortcut key switches to.
func (k KeyMap) ModeFor(msg tea.KeyMsg) (orchestrator.Mode, bool) {
	switch {
	case key.Matches(msg, k.Update):
		return orchestrator.ModeUpdate, true
	case key.Matches(msg, k.Install):
		return orchestrator.ModeInstall, true
	case key.Matches(msg, k.Remove):
		return orchestrator.ModeRemove, true
	case key.Matches(msg, k.Query):
		return orchestrator.ModeQuery, true
	case key.Matches(msg, k.Settings):
		return orchestrator.ModeSettings, true
	case key.Matches(msg, k.Shell):
		return orchestrator.ModeShell, true
	}

	return 0, false
}

// Navigation translates movement and confirmation keys. These work while a
// text input has focus.
func (k KeyMap) Navigation(msg tea.KeyMsg) (orchestrator.Action, bool) {
	switch {
	case msg.Type == tea.KeyUp:
		return orchestrator.ActionUp, true
	case msg.Type == tea.KeyDown:
		return orchestrator.ActionDown, true
	case key.Matches(msg, k.PageUp):
		return orchestrator.ActionPageUp, true
	case key.Matches(msg, k.PageDown):
		return orchestrator.ActionPageDown, true
	case key.Matches(msg, k.Confirm):
		return orchestrator.ActionConfirm, true
	case key.Matches(msg, k.Back):
		return orchestrator.ActionBack, true
	case key.Matches(msg, k.Save):
		return orchestrator.ActionSave, true
	case key.Matches(msg, k.ToggleView):
		return orchestrator.ActionToggleView, true
	}

	return 0, false
}

// Action translates every bound key. It is used when no text input has focus.
func (k KeyMap) Action(msg tea.KeyMsg) (orchestrator.Action, bool) {
	if a, ok := k.Navigation(msg); ok {
		return a, true
	}

	switch {
	case key.Matches(msg, k.Up):
		return orchestrator.ActionUp, true
	case key.Matches(msg, k.Down):
		return orchestrator.ActionDown, true
	case key.Matches(msg, k.Select):
		return orchestrator.ActionSelect, true
	case key.Matches(msg, k.Retry):
		return orchestrator.ActionRetry, true
	case key.Matches(msg, k.Analyze):
		return orchestrator.ActionAnalyze, true
	}

	return 0, false
}
