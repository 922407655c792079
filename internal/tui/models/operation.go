// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"fmt"
	"strings"

	"github.com/janderssonse/lian/internal/domain"
	"github.com/janderssonse/lian/internal/orchestrator"
	"github.com/janderssonse/lian/internal/stringutil"
)

// Operation renders the Update, Install and Remove modes.
func Operation(f Frame, mode orchestrator.Mode, st *orchestrator.OpState) string {
	head := title(f, mode.String(), phaseDetail(st))

	switch st.Phase {
	case orchestrator.PhaseDetectingManager:
		return head + f.Spinner + " Detecting package manager…"
	case orchestrator.PhaseSearching, orchestrator.PhaseBrowsing:
		return head + browse(f, st)
	case orchestrator.PhasePreviewingChanges, orchestrator.PhasePreviewingInstall, orchestrator.PhasePreviewingRemove:
		return head + preview(f, st)
	case orchestrator.PhaseError:
		return head + errorBox(f, st.Err, outputWindow(f, st.Output, f.Rows-4))
	case orchestrator.PhaseAnalysisComplete, orchestrator.PhaseCompleted:
		if st.View == orchestrator.ViewAnalysis && st.Analysis != "" {
			return head + f.Pager
		}
	}

	return head + outputWindow(f, st.Output, f.Rows)
}

func phaseDetail(st *orchestrator.OpState) string {
	switch st.Phase {
	case orchestrator.PhaseSearching, orchestrator.PhaseBrowsing:
		if n := len(st.Selected); n > 0 {
			return fmt.Sprintf("%d selected", n)
		}

		return ""
	case orchestrator.PhaseExecuting:
		return strings.Join(st.Command.Argv, " ")
	case orchestrator.PhaseCompleted:
		return "completed"
	case orchestrator.PhaseAnalyzing:
		return "analyzing"
	case orchestrator.PhaseAnalysisComplete:
		if st.View == orchestrator.ViewAnalysis {
			return "analysis"
		}

		return "log"
	case orchestrator.PhaseError:
		return "failed"
	}

	return ""
}

func browse(f Frame, st *orchestrator.OpState) string {
	s := f.Styles
	out := f.Input + "\n"

	switch {
	case st.SearchErr != "":
		return out + s.ErrorText.Render(st.SearchErr)
	case len(st.Results) == 0 && st.Query == "":
		return out + s.MutedText.Render("Type to search")
	case len(st.Results) == 0:
		return out + s.MutedText.Render("No packages found")
	}

	return out + packageList(f, st.Results, st.Cursor, st.Selected, f.Rows-1)
}

func preview(f Frame, st *orchestrator.OpState) string {
	s := f.Styles

	var b strings.Builder

	switch {
	case st.PreviewLoading:
		b.WriteString(f.Spinner + " Preparing the preview…\n")
	case st.Op == domain.OpUpdate:
		b.WriteString(updatePreview(f, st.Preview.Updates))
	case st.Op == domain.OpInstall:
		b.WriteString(installPreview(f, st.Preview.Items))
	default:
		b.WriteString(removePreview(f, st.Preview))
	}

	b.WriteString("\n")

	switch {
	case st.Authorizing:
		b.WriteString(f.Spinner + " Waiting for sudo…")
	case !st.PreviewLoading:
		b.WriteString(s.Keybinding("enter", "run "+st.Op.String()) + "  " + s.Keybinding("esc", "back"))
	}

	return b.String()
}

func updatePreview(f Frame, updates []domain.Update) string {
	s := f.Styles
	if len(updates) == 0 {
		return s.SuccessText.Render("The system is up to date.") + "\n"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%d packages will be upgraded:\n", len(updates))

	shown := limit(updates, f.Rows-3)
	for _, u := range shown {
		line := u.Name
		if u.OldVersion != "" || u.NewVersion != "" {
			line = fmt.Sprintf("%s %s → %s", u.Name, s.MutedText.Render(u.OldVersion), s.SuccessText.Render(u.NewVersion))
		}

		b.WriteString("  " + line + "\n")
	}

	if more := len(updates) - len(shown); more > 0 {
		fmt.Fprintf(&b, "  … and %d more\n", more)
	}

	return b.String()
}

func installPreview(f Frame, items []domain.PreviewItem) string {
	s := f.Styles

	var b strings.Builder

	for _, it := range limit(items, f.Rows-2) {
		if it.Missing {
			b.WriteString(s.StatusIcon("error") + " " + it.Name + " " + s.ErrorText.Render("not found in the sync databases") + "\n")

			continue
		}

		fmt.Fprintf(&b, "%s %s %s  %s\n", s.StatusIcon("pending"), it.Name, s.SuccessText.Render(it.Version),
			s.MutedText.Render(fmt.Sprintf("download %s, installed %s", orUnknown(it.DownloadSize), orUnknown(it.InstalledSize))))

		if len(it.Depends) > 0 {
			deps := stringutil.Truncate("depends on "+strings.Join(it.Depends, " "), f.Width-6)
			b.WriteString("    " + s.MutedText.Render(deps) + "\n")
		}
	}

	return b.String()
}

func removePreview(f Frame, p domain.Preview) string {
	s := f.Styles

	var b strings.Builder

	for _, it := range p.Items {
		if len(it.RequiredBy) > 0 {
			b.WriteString(s.WarningText.Render(fmt.Sprintf("%s is required by %s", it.Name, strings.Join(it.RequiredBy, " "))) + "\n")
		}
	}

	fmt.Fprintf(&b, "%d packages will be removed:\n", len(p.Targets))

	for _, t := range limit(p.Targets, f.Rows-3) {
		b.WriteString("  " + s.ErrorText.Render("-") + " " + t + "\n")
	}

	return b.String()
}

func errorBox(f Frame, msg, tail string) string {
	box := f.Styles.Border.
		BorderForeground(f.Styles.Error).
		Width(max(f.Width-4, 10)).
		Render(f.Styles.ErrorText.Render(msg))

	if tail == "" {
		return box
	}

	return box + "\n" + tail
}

func limit[T any](items []T, n int) []T {
	if n < 1 {
		n = 1
	}

	return items[:min(len(items), n)]
}
