// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import "github.com/janderssonse/lian/internal/orchestrator"

// Shell renders the command output above the prompt.
func Shell(f Frame, sh *orchestrator.ShellState) string {
	detail := ""

	switch {
	case sh.Phase == orchestrator.PhaseRunning:
		detail = "running"
	case sh.Authorizing:
		detail = "waiting for sudo"
	case len(sh.History) > 0:
		detail = "↑/↓ history"
	}

	prompt := f.Input
	if sh.Phase == orchestrator.PhaseRunning {
		prompt = f.Spinner + " " + f.Styles.MutedText.Render("ctrl+c stops the command")
	}

	return title(f, "Shell", detail) + outputWindow(f, sh.Output, f.Rows-1) + "\n" + prompt
}
