// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package orchestrator

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/lian/internal/domain"
	"go.uber.org/zap"
)

func (o *Orchestrator) enterDashboard() tea.Cmd {
	d := &o.dashboard
	d.epoch++
	d.FlavorErr, d.CountsErr = "", ""
	d.CountsLoading = true

	cmds := []tea.Cmd{o.detectCmd(ModeDashboard, d.epoch)}

	if d.System == (domain.SystemInfo{}) {
		d.SystemLoading = true
		cmds = append(cmds, o.probeCmd())
	}

	return tea.Batch(cmds...)
}

func (o *Orchestrator) applyDashboardDetected(msg managerDetected) tea.Cmd {
	d := &o.dashboard
	if msg.epoch != d.epoch {
		return nil
	}

	if msg.err != nil {
		d.FlavorErr = domain.FormatErrorMessage(msg.err, false)
		d.CountsLoading = false

		return nil
	}

	o.flavor, d.Flavor = msg.flavor, msg.flavor

	return o.countsCmd(d.epoch)
}

func (o *Orchestrator) applySystem(msg systemProbed) {
	o.dashboard.SystemLoading = false

	if msg.err != nil {
		o.logger.Warn("system probe failed", zap.Error(msg.err))
	}

	o.system = msg.info
	o.dashboard.System = msg.info
}

func (o *Orchestrator) applyCounts(msg countsLoaded) {
	d := &o.dashboard
	if msg.epoch != d.epoch {
		return
	}

	d.CountsLoading = false

	if msg.err != nil {
		d.CountsErr = domain.FormatErrorMessage(msg.err, false)

		return
	}

	d.Counts = msg.counts
}

func (o *Orchestrator) dashboardAction(a Action) tea.Cmd {
	d := &o.dashboard

	switch a {
	case ActionUp:
		d.Cursor = max(d.Cursor-1, 0)
	case ActionDown:
		d.Cursor = min(d.Cursor+1, len(MenuModes)-1)
	case ActionConfirm:
		return o.enter(MenuModes[d.Cursor])
	case ActionRetry:
		d.System = domain.SystemInfo{}

		return o.enterDashboard()
	}

	return nil
}
