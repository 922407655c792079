// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"fmt"
	"strings"

	"github.com/janderssonse/lian/internal/orchestrator"
)

// Settings renders the settings list, with the input in place of the value
// being edited.
func Settings(f Frame, st *orchestrator.SettingsState) string {
	s := f.Styles

	detail := ""
	if st.Dirty {
		detail = "unsaved changes"
	}

	if st.Saving {
		detail = "saving…"
	}

	var b strings.Builder

	b.WriteString(title(f, "Settings", detail))

	for i, row := range orchestrator.Settings(st.Draft) {
		if row.Kind == orchestrator.KindSection {
			if i > 0 {
				b.WriteString("\n")
			}

			b.WriteString(s.PrimaryText.Bold(true).Render(row.Label) + "\n")

			continue
		}

		value := row.Display()
		if row.Kind == orchestrator.KindToggle {
			icon := s.StatusIcon("pending")
			if value == "on" {
				icon = s.StatusIcon("success")
			}

			value = icon + " " + value
		}

		if i == st.Cursor && st.Editing {
			value = f.Input
		}

		line := fmt.Sprintf("%-18s %s", row.Label, value)
		if i == st.Cursor {
			b.WriteString(s.Selected.Render(SelectedPrefix + line))
		} else {
			b.WriteString(UnselectedPrefix + line)
		}

		b.WriteString("\n")
	}

	return b.String()
}
