// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package orchestrator

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/lian/internal/config"
	"github.com/janderssonse/lian/internal/domain"
)

// Action is a semantic user intent. The UI translates keys into actions; the
// orchestrator never sees raw key codes.
type Action int

// Actions.
const (
	ActionUp Action = iota
	ActionDown
	ActionPageUp
	ActionPageDown
	ActionConfirm
	ActionBack
	ActionCancel
	ActionSelect
	ActionToggleView
	ActionRetry
	ActionAnalyze
	ActionSave
)

// UserAction carries an Action from the UI.
type UserAction struct {
	Action Action
}

// InputChanged reports the text of the focused input after an edit.
type InputChanged struct {
	Text string
}

// SwitchMode asks to make Mode the active mode.
type SwitchMode struct {
	Mode Mode
}

// Resize reports how many output rows the UI can show, used for paging.
type Resize struct {
	Rows int
}

// Results of background tasks. Each carries the identity it was dispatched
// with so late arrivals can be recognized and dropped.
type (
	tickMsg struct{}

	managerDetected struct {
		mode   Mode
		epoch  uint64
		flavor domain.Flavor
		err    error
	}

	systemProbed struct {
		info domain.SystemInfo
		err  error
	}

	countsLoaded struct {
		epoch  uint64
		counts domain.Counts
		err    error
	}

	searchResult struct {
		mode Mode
		seq  uint64
		pkgs []domain.Package
		err  error
	}

	previewLoaded struct {
		mode    Mode
		epoch   uint64
		preview domain.Preview
		before  []domain.Package
		err     error
	}

	detailLoaded struct {
		epoch  uint64
		detail domain.PackageDetail
		err    error
	}

	authorized struct {
		mode  Mode
		epoch uint64
		err   error
	}

	// execRequest hands the terminal to an external program.
	execRequest struct {
		cmd tea.Cmd
	}

	outputMsg struct {
		run   uint64
		event domain.OutputEvent
		ok    bool
	}

	commandFinished struct {
		run    uint64
		result domain.CommandResult
	}

	analysisDone struct {
		mode  Mode
		epoch uint64
		text  string
		err   error
	}

	reportSaved struct {
		mode  Mode
		epoch uint64
		path  string
		err   error
	}

	settingsSaved struct {
		epoch uint64
		cfg   config.Config
		err   error
	}
)
