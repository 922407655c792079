// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/janderssonse/lian/internal/orchestrator"
)

// shortHelp lists the keys that do something in the current mode and phase.
func (a *App) shortHelp() []key.Binding {
	k := a.keys
	quit := k.Quit

	if a.surface().focused {
		quit = k.Interrupt
	}

	switch mode := a.orch.Mode(); mode {
	case orchestrator.ModeDashboard:
		return []key.Binding{k.Up, k.Down, k.Confirm, k.Retry, k.Help, quit}
	case orchestrator.ModeUpdate, orchestrator.ModeInstall, orchestrator.ModeRemove:
		return a.opHelp(a.orch.Op(mode), quit)
	case orchestrator.ModeQuery:
		if a.orch.Query().Phase == orchestrator.PhaseDetail {
			return []key.Binding{k.Up, k.Down, k.PageDown, k.Back}
		}

		return []key.Binding{k.Down, k.Confirm, k.Back, quit}
	case orchestrator.ModeSettings:
		if a.orch.SettingsView().Editing {
			return []key.Binding{k.Confirm, k.Back}
		}

		return []key.Binding{k.Up, k.Down, k.Confirm, k.Save, k.Back, quit}
	case orchestrator.ModeShell:
		if a.orch.Shell().Phase == orchestrator.PhaseRunning {
			return []key.Binding{k.Interrupt, k.PageUp, k.PageDown}
		}

		return []key.Binding{k.Confirm, k.Up, k.Down, k.Back, quit}
	}

	return []key.Binding{k.Help, quit}
}

func (a *App) opHelp(st *orchestrator.OpState, quit key.Binding) []key.Binding {
	k := a.keys

	switch {
	case st.Phase == orchestrator.PhaseSearching, st.Phase == orchestrator.PhaseBrowsing:
		return []key.Binding{k.Up, k.Down, k.Select, k.Confirm, k.Back}
	case st.Phase.Previewing():
		return []key.Binding{k.Confirm, k.Back, quit}
	case st.Busy():
		return []key.Binding{k.Interrupt, k.Up, k.Down, k.PageUp, k.PageDown}
	case st.Phase.Terminal():
		bindings := []key.Binding{k.Retry, k.Back, k.Up, k.Down}
		if st.Analysis != "" {
			bindings = append(bindings, k.ToggleView)
		}

		if st.Result.Success && st.Phase != orchestrator.PhaseAnalysisComplete {
			bindings = append(bindings, k.Analyze)
		}

		return append(bindings, quit)
	}

	return []key.Binding{k.Back, quit}
}

func (a *App) fullHelp() [][]key.Binding {
	k := a.keys

	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Confirm, k.Back, k.Select, k.ToggleView},
		{k.Retry, k.Analyze, k.Save, k.Interrupt},
		{k.Update, k.Install, k.Remove, k.Query, k.Settings, k.Shell},
		{k.Help, k.Quit},
	}
}
