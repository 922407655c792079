// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

// Package prompt builds the analysis prompt sent after an operation.
package prompt

import (
	"fmt"
	"strings"

	"github.com/janderssonse/lian/internal/domain"
)

// MaxOutputLines is how much of the captured output goes into a prompt.
const MaxOutputLines = 200

// Input is everything known about a finished operation.
type Input struct {
	Operation domain.Operation
	Flavor    domain.Flavor
	System    domain.SystemInfo
	Targets   []string
	Output    string
	Changes   ChangeSet
}

var tasks = map[domain.Operation]string{
	domain.OpUpdate: "Summarize this system upgrade. Group upgraded packages by area " +
		"(kernel and drivers, core system, desktop, applications, development). " +
		"Call out anything that needs a reboot, a re-login, or a look at .pacnew files.",
	domain.OpInstall: "Summarize this installation. Explain what the installed packages are for, " +
		"which dependencies came along, and any post-install steps the output mentions.",
	domain.OpRemove: "Summarize this removal. List what was removed, point out orphaned " +
		"dependencies or leftover configuration, and flag anything that looks risky to lose.",
	domain.OpCustom: "Explain what this command did and whether anything in the output needs attention.",
}

// Build renders the prompt as markdown.
func Build(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s analysis\n\n", in.Operation)
	b.WriteString(tasks[in.Operation])
	b.WriteString("\n\nAnswer in markdown with short sections and bullet lists. Mark warnings with **Warning:**.\n\n")

	b.WriteString("## System\n\n")
	fmt.Fprintf(&b, "- Distribution: %s\n", in.System.DistroOrUnknown())
	fmt.Fprintf(&b, "- Kernel: %s\n", orUnknown(in.System.Kernel))
	fmt.Fprintf(&b, "- Package manager: %s\n", orUnknown(string(in.Flavor)))

	if len(in.Targets) > 0 {
		fmt.Fprintf(&b, "- Targets: %s\n", strings.Join(in.Targets, " "))
	}

	if !in.Changes.Empty() {
		b.WriteString("\n## Explicit package changes\n\n")
		writeChanges(&b, in.Changes)
	}

	fmt.Fprintf(&b, "\n## Output (last %d lines)\n\n```\n", MaxOutputLines)
	b.WriteString(Tail(in.Output, MaxOutputLines))
	b.WriteString("\n```\n")

	return b.String()
}

func writeChanges(b *strings.Builder, c ChangeSet) {
	for _, u := range c.Upgraded {
		fmt.Fprintf(b, "- upgraded %s: %s -> %s\n", u.Name, u.OldVersion, u.NewVersion)
	}

	for _, p := range c.Added {
		fmt.Fprintf(b, "- added %s %s\n", p.Name, p.Version)
	}

	for _, p := range c.Removed {
		fmt.Fprintf(b, "- removed %s %s\n", p.Name, p.Version)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}

	return s
}
