// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

// Package orchestrator holds all application state and applies events to it
// one at a time. Anything that blocks runs as a tea.Cmd and reports back with
// another event.
package orchestrator

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/lian/internal/config"
	"github.com/janderssonse/lian/internal/debounce"
	"github.com/janderssonse/lian/internal/domain"
	"go.uber.org/zap"
)

// TickInterval drives debouncing and the idle poll.
const TickInterval = 100 * time.Millisecond

// Deps are the collaborators the orchestrator drives.
type Deps struct {
	Detector   domain.ManagerDetector
	Prober     domain.SystemProber
	Querier    func(domain.Flavor) domain.PackageQuerier
	Executor   Executor
	Authorizer Authorizer
	Analyzer   func(config.Config) (domain.Analyzer, error)
	Reports    func(config.Config) domain.ReportStore
	Configs    ConfigStore
	Logger     *zap.Logger
	Now        func() time.Time
}

// Orchestrator is the application state machine. It is not safe for
// concurrent use; the UI loop is its only caller.
//
//nolint:containedctx // background tasks derive from this context and stop on Shutdown
type Orchestrator struct {
	deps   Deps
	cfg    config.Config
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mode   Mode
	flavor domain.Flavor
	system domain.SystemInfo
	rows   int

	dashboard DashboardState
	ops       map[Mode]*OpState
	query     QueryState
	settings  SettingsState
	shell     ShellState

	job     Job
	jobRun  uint64
	jobMode Mode
	nextRun uint64

	analysisCancel context.CancelFunc
	tickCmd        func() tea.Cmd

	status string
}

// New creates an orchestrator starting on the dashboard.
func New(cfg config.Config, deps Deps) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	if deps.Now == nil {
		deps.Now = time.Now
	}

	if deps.Authorizer == nil {
		deps.Authorizer = SudoAuthorizer{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	o := &Orchestrator{
		deps:    deps,
		cfg:     cfg,
		logger:  deps.Logger,
		ctx:     ctx,
		cancel:  cancel,
		mode:    ModeDashboard,
		rows:    20,
		ops:     make(map[Mode]*OpState, 3),
		tickCmd: tick,
	}

	for _, mode := range []Mode{ModeUpdate, ModeInstall, ModeRemove} {
		op, _ := mode.Operation()
		o.ops[mode] = &OpState{
			Op:     op,
			Output: NewBuffer(MaxLines),
			search: debounce.New(debounce.DefaultQuiet, deps.Now),
		}
	}

	o.query.search = debounce.New(debounce.DefaultQuiet, deps.Now)
	o.shell = ShellState{Phase: PhaseAwaitingInput, Output: NewBuffer(MaxLines)}

	return o
}

// Init starts the idle tick and the dashboard probes.
func (o *Orchestrator) Init() tea.Cmd {
	return tea.Batch(o.tickCmd(), o.enter(ModeDashboard))
}

// Shutdown stops background tasks that honor cancellation. Running commands
// are stopped by the supervisor's CleanupAll.
func (o *Orchestrator) Shutdown() {
	if o.analysisCancel != nil {
		o.analysisCancel()
	}

	o.cancel()
}

// Mode returns the active mode.
func (o *Orchestrator) Mode() Mode { return o.mode }

// Config returns the live configuration.
func (o *Orchestrator) Config() config.Config { return o.cfg }

// Flavor returns the detected package manager, empty until detected.
func (o *Orchestrator) Flavor() domain.Flavor { return o.flavor }

// System returns the probed host information.
func (o *Orchestrator) System() domain.SystemInfo { return o.system }

// Status returns the global status line.
func (o *Orchestrator) Status() string { return o.status }

// Busy reports whether a command is still outstanding, including one that is
// being stopped.
func (o *Orchestrator) Busy() bool { return o.job != nil }

// Op returns the state of the Update, Install or Remove mode.
func (o *Orchestrator) Op(mode Mode) *OpState { return o.ops[mode] }

// Dashboard returns the dashboard state.
func (o *Orchestrator) Dashboard() *DashboardState { return &o.dashboard }

// Query returns the query state.
func (o *Orchestrator) Query() *QueryState { return &o.query }

// Shell returns the shell state.
func (o *Orchestrator) Shell() *ShellState { return &o.shell }

// SettingsView returns the settings state.
func (o *Orchestrator) SettingsView() *SettingsState { return &o.settings }

// Display returns the output lines of mode, for modes that run commands.
func (o *Orchestrator) Display(mode Mode) *Buffer {
	if mode == ModeShell {
		return o.shell.Output
	}

	if st, ok := o.ops[mode]; ok {
		return st.Output
	}

	return nil
}

// Apply applies one event and returns the follow-up task, if any.
func (o *Orchestrator) Apply(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tickMsg:
		return tea.Batch(o.tickCmd(), o.tick())
	case SwitchMode:
		return o.enter(msg.Mode)
	case Resize:
		o.rows = max(msg.Rows, 1)
	case UserAction:
		return o.action(msg.Action)
	case InputChanged:
		o.input(msg.Text)
	case execRequest:
		return msg.cmd

	case managerDetected:
		return o.applyDetected(msg)
	case systemProbed:
		o.applySystem(msg)
	case countsLoaded:
		o.applyCounts(msg)
	case searchResult:
		o.applySearch(msg)
	case previewLoaded:
		o.applyPreview(msg)
	case detailLoaded:
		o.applyDetail(msg)
	case authorized:
		return o.applyAuthorized(msg)
	case outputMsg:
		return o.applyOutput(msg)
	case commandFinished:
		return o.applyFinished(msg)
	case analysisDone:
		return o.applyAnalysis(msg)
	case reportSaved:
		o.applyReport(msg)
	case settingsSaved:
		o.applySettingsSaved(msg)
	}

	return nil
}

// enter makes mode active and resets its phase. A mode still running a
// command or an analysis keeps its state so the run is not lost.
func (o *Orchestrator) enter(mode Mode) tea.Cmd {
	o.mode = mode

	switch mode {
	case ModeDashboard:
		return o.enterDashboard()
	case ModeUpdate, ModeInstall, ModeRemove:
		if o.ops[mode].Busy() {
			return nil
		}

		return o.resetOp(mode)
	case ModeQuery:
		return o.enterQuery()
	case ModeSettings:
		o.enterSettings()
	case ModeShell:
		o.enterShell()
	}

	return nil
}

func (o *Orchestrator) action(a Action) tea.Cmd {
	switch o.mode {
	case ModeDashboard:
		return o.dashboardAction(a)
	case ModeUpdate, ModeInstall, ModeRemove:
		return o.opAction(o.mode, a)
	case ModeQuery:
		return o.queryAction(a)
	case ModeSettings:
		return o.settingsAction(a)
	case ModeShell:
		return o.shellAction(a)
	}

	return nil
}

func (o *Orchestrator) input(text string) {
	switch o.mode {
	case ModeInstall, ModeRemove:
		o.opInput(o.mode, text)
	case ModeQuery:
		o.queryInput(text)
	case ModeSettings:
		o.settingsInput(text)
	case ModeShell:
		o.shellInput(text)
	}
}

// tick fires due searches for the active mode.
func (o *Orchestrator) tick() tea.Cmd {
	switch o.mode {
	case ModeInstall, ModeRemove:
		st := o.ops[o.mode]
		if q, ok := st.search.Tick(); ok {
			return o.searchCmd(o.mode, q)
		}
	case ModeQuery:
		if q, ok := o.query.search.Tick(); ok {
			return o.searchCmd(ModeQuery, q)
		}
	}

	return nil
}

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (o *Orchestrator) querier() domain.PackageQuerier {
	return o.deps.Querier(o.flavor)
}
