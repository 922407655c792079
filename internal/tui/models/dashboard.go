// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/janderssonse/lian/internal/config"
	"github.com/janderssonse/lian/internal/domain"
	"github.com/janderssonse/lian/internal/orchestrator"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var menuDescriptions = map[orchestrator.Mode]string{
	orchestrator.ModeUpdate:   "Upgrade the whole system",
	orchestrator.ModeInstall:  "Search the repositories and install packages",
	orchestrator.ModeRemove:   "Remove installed packages and their unneeded dependencies",
	orchestrator.ModeQuery:    "Inspect installed packages and their files",
	orchestrator.ModeSettings: "AI analysis, model, proxy and report settings",
	orchestrator.ModeShell:    "Run any command under supervision",
}

var titleCase = cases.Title(language.English)

// Dashboard renders the system overview and the mode menu.
func Dashboard(f Frame, d *orchestrator.DashboardState, cfg config.Config) string {
	s := f.Styles

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		s.Card.Render(systemCard(f, d)),
		s.Card.Render(packagesCard(f, d)),
		s.Card.Render(managerCard(f, d, cfg)),
	)

	var menu strings.Builder

	for i, m := range orchestrator.MenuModes {
		row := fmt.Sprintf("%d  %-9s %s", i+1, m.String(), s.MutedText.Render(menuDescriptions[m]))
		if i == d.Cursor {
			menu.WriteString(s.Selected.Render(SelectedPrefix + row))
		} else {
			menu.WriteString(UnselectedPrefix + row)
		}

		menu.WriteString("\n")
	}

	return title(f, "Dashboard", "") + cards + "\n\n" + menu.String()
}

func systemCard(f Frame, d *orchestrator.DashboardState) string {
	s := f.Styles
	head := s.PrimaryText.Bold(true).Render("System")

	if d.SystemLoading {
		return head + "\n" + f.Spinner + " probing…"
	}

	info := d.System
	rows := []string{
		head,
		"Distro  " + info.DistroOrUnknown(),
		"Kernel  " + orUnknown(info.Kernel),
		"CPU     " + orUnknown(info.CPU),
		"Memory  " + orUnknown(info.Memory),
	}

	return strings.Join(rows, "\n")
}

func packagesCard(f Frame, d *orchestrator.DashboardState) string {
	s := f.Styles
	head := s.PrimaryText.Bold(true).Render("Packages")

	switch {
	case d.CountsLoading:
		return head + "\n" + f.Spinner + " counting…"
	case d.CountsErr != "":
		return head + "\n" + s.ErrorText.Render(d.CountsErr)
	}

	c := d.Counts
	upgrades := humanize.Comma(int64(c.Upgrades))

	if c.Upgrades > 0 {
		upgrades = s.WarningText.Render(upgrades)
	}

	return strings.Join([]string{
		head,
		"Installed  " + humanize.Comma(int64(c.Installed)),
		"Explicit   " + humanize.Comma(int64(c.Explicit)),
		"Upgrades   " + upgrades,
	}, "\n")
}

func managerCard(f Frame, d *orchestrator.DashboardState, cfg config.Config) string {
	s := f.Styles
	head := s.PrimaryText.Bold(true).Render("Manager")

	manager := f.Spinner + " detecting…"

	switch {
	case d.FlavorErr != "":
		manager = s.ErrorText.Render(d.FlavorErr)
	case d.Flavor != "":
		manager = titleCase.String(string(d.Flavor))
	}

	var analyzed []string

	for _, op := range []domain.Operation{domain.OpUpdate, domain.OpInstall, domain.OpRemove} {
		if cfg.AI.Enabled(op) {
			analyzed = append(analyzed, op.String())
		}
	}

	ai := "off"
	switch {
	case len(analyzed) > 0 && !cfg.HasAPIKey():
		ai = s.WarningText.Render("no API key")
	case len(analyzed) > 0:
		ai = strings.Join(analyzed, ", ")
	}

	return strings.Join([]string{head, manager, "AI  " + ai, s.MutedText.Render(cfg.Model)}, "\n")
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}

	return v
}
