// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/lian/internal/orchestrator"
	"github.com/janderssonse/lian/internal/stream"
	"github.com/janderssonse/lian/internal/stringutil"
)

// StatusSources is the state the status line may report on.
type StatusSources struct {
	Op       *orchestrator.OpState
	Shell    *orchestrator.ShellState
	Settings *orchestrator.SettingsState
	Query    *orchestrator.QueryState
	Global   string
}

// StatusLine picks what the footer reports for mode: an error first, then
// live progress, then a notice, then the global status.
func StatusLine(f Frame, mode orchestrator.Mode, src StatusSources) string {
	s := f.Styles

	var errText, notice, progress string

	running := false

	switch mode {
	case orchestrator.ModeUpdate, orchestrator.ModeInstall, orchestrator.ModeRemove:
		if st := src.Op; st != nil {
			notice = st.Notice
			running = st.Phase == orchestrator.PhaseExecuting
			progress = stream.FooterText(st.Progress)

			if st.Phase == orchestrator.PhaseAnalyzing {
				running, progress = true, "Analyzing the output…"
			}
		}
	case orchestrator.ModeShell:
		if sh := src.Shell; sh != nil {
			errText, notice = sh.Err, sh.Notice
			running = sh.Phase == orchestrator.PhaseRunning
			progress = stream.FooterText(sh.Progress)
		}
	case orchestrator.ModeSettings:
		if st := src.Settings; st != nil {
			errText, notice = st.Err, st.Notice
		}
	case orchestrator.ModeQuery:
		if q := src.Query; q != nil {
			errText = q.Err
		}
	}

	width := f.Width - 4

	switch {
	case errText != "":
		return s.ErrorText.Render(stringutil.Truncate(errText, width))
	case running:
		if progress == "" {
			progress = "Running…"
		}

		return f.Spinner + " " + s.PrimaryText.Render(stringutil.Truncate(progress, width-2))
	case notice != "":
		return s.WarningText.Render(stringutil.Truncate(notice, width))
	case src.Global != "":
		return s.MutedText.Render(stringutil.Truncate(src.Global, width))
	}

	return ""
}

// RenderFooter creates the footer: the status line above the key hints.
func RenderFooter(f Frame, status, hints string) string {
	return f.Styles.Footer.
		Width(f.Width).
		Render(lipgloss.JoinVertical(lipgloss.Left, status, hints))
}
