// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package orchestrator

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/lian/internal/domain"
)

func (o *Orchestrator) enterQuery() tea.Cmd {
	q := &o.query

	q.epoch++
	q.search.Reset()
	*q = QueryState{Phase: PhaseSearching, epoch: q.epoch, search: q.search}

	return o.searchCmd(ModeQuery, q.search.Flush())
}

func (o *Orchestrator) queryInput(text string) {
	q := &o.query
	if q.Phase == PhaseDetail {
		return
	}

	q.Phase = PhaseSearching
	q.Query = text
	q.search.NoteInput(text)
}

func (o *Orchestrator) applyQuerySearch(msg searchResult) {
	q := &o.query
	if !q.search.Accept(msg.seq) {
		return
	}

	q.Results, q.Cursor, q.Err = msg.pkgs, 0, ""
	if len(q.Results) == 0 && q.Phase == PhaseResults {
		q.Phase = PhaseSearching
	}

	if msg.err != nil {
		q.Err = domain.FormatErrorMessage(msg.err, false)
	}
}

func (o *Orchestrator) queryAction(a Action) tea.Cmd {
	q := &o.query

	switch q.Phase {
	case PhaseSearching:
		switch a {
		case ActionDown, ActionConfirm:
			if len(q.Results) > 0 {
				q.Phase, q.Cursor = PhaseResults, 0
			}
		case ActionBack:
			return o.enter(ModeDashboard)
		}
	case PhaseResults:
		switch a {
		case ActionUp:
			if q.Cursor == 0 {
				q.Phase = PhaseSearching
			} else {
				q.Cursor--
			}
		case ActionDown:
			q.Cursor = min(q.Cursor+1, max(len(q.Results)-1, 0))
		case ActionPageUp:
			q.Cursor = max(q.Cursor-o.rows, 0)
		case ActionPageDown:
			q.Cursor = min(q.Cursor+o.rows, max(len(q.Results)-1, 0))
		case ActionConfirm:
			if q.Cursor < 0 || q.Cursor >= len(q.Results) {
				return nil
			}

			name := q.Results[q.Cursor].Name
			q.Phase = PhaseDetail
			q.Detail = domain.PackageDetail{Name: name}
			q.DetailLoading, q.Err = true, ""

			return o.detailCmd(q.epoch, name)
		case ActionBack:
			q.Phase = PhaseSearching
		}
	case PhaseDetail:
		if a == ActionBack {
			q.Phase, q.DetailLoading = PhaseResults, false
		}
	}

	return nil
}

func (o *Orchestrator) applyDetail(msg detailLoaded) {
	q := &o.query
	if msg.epoch != q.epoch || q.Phase != PhaseDetail || msg.detail.Name != q.Detail.Name {
		return
	}

	q.DetailLoading = false

	if msg.err != nil {
		q.Err = domain.FormatErrorMessage(msg.err, false)

		return
	}

	q.Detail = msg.detail
}
