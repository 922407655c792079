// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package orchestrator

import (
	"slices"

	"github.com/janderssonse/lian/internal/catalog"
	"github.com/janderssonse/lian/internal/config"
	"github.com/janderssonse/lian/internal/debounce"
	"github.com/janderssonse/lian/internal/domain"
)

// OpState is the state of the Update, Install and Remove modes.
type OpState struct {
	Op     domain.Operation
	Phase  Phase
	Flavor domain.Flavor

	// Search and browse.
	Query     string
	Results   []domain.Package
	Cursor    int
	Selected  map[int]bool
	SearchErr string

	// Preview and confirmation.
	Targets        []string
	Preview        domain.Preview
	PreviewLoading bool
	Authorizing    bool

	// Execution.
	Command  catalog.Command
	Output   *Buffer
	Progress domain.ProgressInfo
	Result   domain.CommandResult

	// Analysis.
	Analysis   string
	ReportPath string
	View       View

	Err    string
	Notice string

	epoch  uint64
	run    uint64
	before []domain.Package
	search *debounce.Debouncer
}

// SelectedNames returns the selected packages in list order, or the
// highlighted one when nothing is selected.
func (s *OpState) SelectedNames() []string {
	var names []string

	for i, pkg := range s.Results {
		if s.Selected[i] {
			names = append(names, pkg.Name)
		}
	}

	if len(names) == 0 && s.Cursor >= 0 && s.Cursor < len(s.Results) {
		names = append(names, s.Results[s.Cursor].Name)
	}

	return names
}

// Busy reports whether the mode is running something that leaving and
// re-entering must not throw away.
func (s *OpState) Busy() bool {
	return s.Phase == PhaseExecuting || s.Phase == PhaseAnalyzing
}

// QueryState is the state of the Query mode.
type QueryState struct {
	Phase         Phase
	Query         string
	Results       []domain.Package
	Cursor        int
	Detail        domain.PackageDetail
	DetailLoading bool
	Err           string

	epoch  uint64
	search *debounce.Debouncer
}

// ShellState is the state of the Shell mode. History survives mode switches.
type ShellState struct {
	Phase       Phase
	Input       string
	History     []string
	Output      *Buffer
	Progress    domain.ProgressInfo
	Command     catalog.Command
	Result      domain.CommandResult
	Authorizing bool
	Err         string
	Notice      string

	histPos int
	epoch   uint64
	run     uint64
}

// MaxHistory bounds the shell history.
const MaxHistory = 100

// remember appends line unless it repeats the previous entry.
func (s *ShellState) remember(line string) {
	if n := len(s.History); n > 0 && s.History[n-1] == line {
		s.histPos = n

		return
	}

	s.History = append(s.History, line)
	if over := len(s.History) - MaxHistory; over > 0 {
		s.History = slices.Delete(s.History, 0, over)
	}

	s.histPos = len(s.History)
}

// recall moves through history; delta -1 is older.
func (s *ShellState) recall(delta int) {
	if len(s.History) == 0 {
		return
	}

	s.histPos = min(max(s.histPos+delta, 0), len(s.History))
	if s.histPos == len(s.History) {
		s.Input = ""

		return
	}

	s.Input = s.History[s.histPos]
}

// DashboardState is the state of the Dashboard mode.
type DashboardState struct {
	Flavor        domain.Flavor
	FlavorErr     string
	System        domain.SystemInfo
	SystemLoading bool
	Counts        domain.Counts
	CountsErr     string
	CountsLoading bool
	Cursor        int

	epoch uint64
}

// SettingsState is the state of the Settings mode.
type SettingsState struct {
	Draft    config.Config
	Cursor   int
	Editing  bool
	EditText string
	Dirty    bool
	Saving   bool
	Err      string
	Notice   string

	epoch uint64
}

// MenuModes are the modes reachable from the dashboard menu.
var MenuModes = []Mode{ModeUpdate, ModeInstall, ModeRemove, ModeQuery, ModeSettings, ModeShell}
