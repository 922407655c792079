// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

// Package tui is the terminal front end. It owns no application state: every
// key is translated to an orchestrator event and every frame is rendered from
// the orchestrator's read-only views.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/lian/internal/orchestrator"
	"github.com/janderssonse/lian/internal/tui/models"
	"github.com/janderssonse/lian/internal/tui/styles"
)

// Layout constants for consistent spacing.
const (
	headerRows    = 2 // Tabs plus the bottom border
	footerRows    = 3 // Top border, status line, key hints
	bodyTitleRows = 2 // Mode title and the line under it
	minBodyRows   = 3
	minInputWidth = 10
)

// ErrNoTerminal is returned when the TUI is launched in a non-terminal environment.
var ErrNoTerminal = errors.New("TUI requires a terminal environment")

// MarkdownRenderer turns analysis markdown into terminal text.
type MarkdownRenderer func(markdown string, width int) string

// App is the root bubbletea model.
type App struct {
	orch     *orchestrator.Orchestrator
	styles   *styles.Styles
	keys     KeyMap
	help     help.Model
	input    textinput.Model
	spinner  spinner.Model
	pager    viewport.Model
	markdown MarkdownRenderer

	pagerKey string
	showHelp bool
	width    int
	height   int
	quitting bool
}

// Option configures an App.
type Option func(*App)

// WithKeyMap replaces the default key bindings.
func WithKeyMap(k KeyMap) Option {
	return func(a *App) { a.keys = k }
}

// WithMarkdownRenderer replaces the glamour renderer.
func WithMarkdownRenderer(r MarkdownRenderer) Option {
	return func(a *App) { a.markdown = r }
}

// New creates the root model around o.
func New(o *orchestrator.Orchestrator, opts ...Option) *App {
	st := styles.New()

	input := textinput.New()
	input.Cursor.SetMode(cursor.CursorStatic)
	input.PromptStyle = st.InputPrompt

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = st.PrimaryText

	app := &App{
		orch:     o,
		styles:   st,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		input:    input,
		spinner:  spin,
		pager:    viewport.New(80, 20),
		markdown: GlamourMarkdown,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, o *orchestrator.Orchestrator, opts ...Option) error {
	program := tea.NewProgram(
		New(o, opts...),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI application failed: %w", err)
	}

	return nil
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.orch.Init(), a.spinner.Tick)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.Width = msg.Width
		a.input.Width = max(msg.Width-8, minInputWidth)
		a.pager.Width, a.pager.Height = msg.Width, a.logRows()
		a.pagerKey = ""

		return a, a.apply(orchestrator.Resize{Rows: a.logRows()})
	case spinner.TickMsg:
		var cmd tea.Cmd

		a.spinner, cmd = a.spinner.Update(msg)

		return a, cmd
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}

	return a, a.apply(msg)
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	frame := a.frame()
	body := a.renderBody(frame)

	if a.showHelp {
		body = a.help.FullHelpView(a.fullHelp())
	}

	body = lipgloss.NewStyle().Height(frame.Height).MaxHeight(frame.Height).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left,
		models.RenderHeader(frame, a.orch.Mode(), a.orch.Flavor(), a.orch.Busy()),
		body,
		models.RenderFooter(frame, a.statusLine(), a.help.ShortHelpView(a.shortHelp())),
	)
}

// Orchestrator returns the wrapped orchestrator (for testing).
func (a *App) Orchestrator() *orchestrator.Orchestrator {
	return a.orch
}

// InputValue returns the text input contents (for testing).
func (a *App) InputValue() string {
	return a.input.Value()
}

// apply hands msg to the orchestrator and brings the widgets in line with
// the new state.
func (a *App) apply(msg tea.Msg) tea.Cmd {
	cmd := a.orch.Apply(msg)
	a.sync()

	return cmd
}

func (a *App) act(action orchestrator.Action) tea.Cmd {
	if a.pagerActive() && a.scrollPager(action) {
		return nil
	}

	return a.apply(orchestrator.UserAction{Action: action})
}

//nolint:cyclop // one branch per key class
func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, a.keys.Interrupt) {
		if a.running() {
			return a.apply(orchestrator.UserAction{Action: orchestrator.ActionCancel})
		}

		return a.quit()
	}

	if a.showHelp {
		if key.Matches(msg, a.keys.Help, a.keys.Back, a.keys.Quit) {
			a.showHelp = false
		}

		return nil
	}

	if s := a.surface(); s.focused {
		if s.spaceSelects && key.Matches(msg, a.keys.Select) {
			return a.act(orchestrator.ActionSelect)
		}

		if action, ok := a.keys.Navigation(msg); ok {
			return a.act(action)
		}

		return a.edit(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a.quit()
	case key.Matches(msg, a.keys.Help):
		a.showHelp = true

		return nil
	}

	if mode, ok := a.keys.ModeFor(msg); ok {
		return a.apply(orchestrator.SwitchMode{Mode: mode})
	}

	if mode, ok := a.menuShortcut(msg); ok {
		return a.apply(orchestrator.SwitchMode{Mode: mode})
	}

	if action, ok := a.keys.Action(msg); ok {
		return a.act(action)
	}

	return nil
}

// menuShortcut maps the digits shown next to the dashboard menu.
func (a *App) menuShortcut(msg tea.KeyMsg) (orchestrator.Mode, bool) {
	if a.orch.Mode() != orchestrator.ModeDashboard || msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}

	i := int(msg.Runes[0] - '1')
	if i < 0 || i >= len(orchestrator.MenuModes) {
		return 0, false
	}

	return orchestrator.MenuModes[i], true
}

func (a *App) edit(msg tea.KeyMsg) tea.Cmd {
	before := a.input.Value()

	var cmd tea.Cmd

	a.input, cmd = a.input.Update(msg)
	if a.input.Value() == before {
		return cmd
	}

	return tea.Batch(cmd, a.apply(orchestrator.InputChanged{Text: a.input.Value()}))
}

func (a *App) quit() tea.Cmd {
	a.quitting = true
	a.orch.Shutdown()

	return tea.Quit
}

// running reports whether the active mode has something ctrl+c should stop.
func (a *App) running() bool {
	mode := a.orch.Mode()

	if mode == orchestrator.ModeShell {
		return a.orch.Shell().Phase == orchestrator.PhaseRunning
	}

	if st := a.orch.Op(mode); st != nil {
		return st.Busy()
	}

	return false
}

// surface describes the text input of the current mode and phase.
type surface struct {
	text         string
	prompt       string
	placeholder  string
	focused      bool
	spaceSelects bool
}

func (a *App) surface() surface {
	switch mode := a.orch.Mode(); mode {
	case orchestrator.ModeInstall:
		st := a.orch.Op(mode)

		return surface{
			text: st.Query, prompt: "/ ", placeholder: "search the repositories",
			focused: st.Phase == orchestrator.PhaseSearching, spaceSelects: true,
		}
	case orchestrator.ModeRemove:
		st := a.orch.Op(mode)

		return surface{
			text: st.Query, prompt: "/ ", placeholder: "filter installed packages",
			focused: st.Phase == orchestrator.PhaseBrowsing, spaceSelects: true,
		}
	case orchestrator.ModeQuery:
		q := a.orch.Query()

		return surface{
			text: q.Query, prompt: "/ ", placeholder: "search installed packages",
			focused: q.Phase == orchestrator.PhaseSearching,
		}
	case orchestrator.ModeShell:
		sh := a.orch.Shell()

		return surface{
			text: sh.Input, prompt: "$ ", placeholder: "type a command",
			focused: sh.Phase != orchestrator.PhaseRunning && !sh.Authorizing,
		}
	case orchestrator.ModeSettings:
		st := a.orch.SettingsView()

		return surface{text: st.EditText, prompt: "> ", focused: st.Editing}
	}

	return surface{}
}

// sync copies orchestrator text into the input widget and refreshes the
// pager content.
func (a *App) sync() {
	s := a.surface()

	a.input.Prompt = s.prompt
	a.input.Placeholder = s.placeholder

	if a.input.Value() != s.text {
		a.input.SetValue(s.text)
		a.input.CursorEnd()
	}

	if s.focused {
		a.input.Focus()
	} else {
		a.input.Blur()
	}

	a.syncPager()
}

// pagerActive reports whether long text is shown in the scrollable pager.
func (a *App) pagerActive() bool {
	mode := a.orch.Mode()

	if mode == orchestrator.ModeQuery {
		return a.orch.Query().Phase == orchestrator.PhaseDetail
	}

	st := a.orch.Op(mode)

	return st != nil && st.Phase.Terminal() && st.View == orchestrator.ViewAnalysis && st.Analysis != ""
}

func (a *App) syncPager() {
	if !a.pagerActive() {
		a.pagerKey = ""

		return
	}

	var content, id string

	analysis := a.orch.Mode() != orchestrator.ModeQuery
	if analysis {
		st := a.orch.Op(a.orch.Mode())
		id = fmt.Sprintf("analysis/%s/%d/%d", a.orch.Mode(), len(st.Analysis), a.width)
		content = st.Analysis
	} else {
		q := a.orch.Query()
		id = fmt.Sprintf("detail/%s/%d/%t/%d", q.Detail.Name, len(q.Detail.Fields), q.DetailLoading, a.width)
		content = models.DetailText(a.styles, q.Detail)
	}

	if id == a.pagerKey {
		return
	}

	if analysis {
		content = a.markdown(content, max(a.width-2, minInputWidth))
	}

	a.pagerKey = id
	a.pager.SetContent(content)
	a.pager.GotoTop()
}

func (a *App) scrollPager(action orchestrator.Action) bool {
	switch action {
	case orchestrator.ActionUp:
		a.pager.ScrollUp(1)
	case orchestrator.ActionDown:
		a.pager.ScrollDown(1)
	case orchestrator.ActionPageUp:
		a.pager.PageUp()
	case orchestrator.ActionPageDown:
		a.pager.PageDown()
	default:
		return false
	}

	return true
}

func (a *App) bodyRows() int {
	if a.height <= 0 {
		return minBodyRows + bodyTitleRows
	}

	return max(a.height-headerRows-footerRows, minBodyRows+bodyTitleRows)
}

func (a *App) logRows() int {
	return a.bodyRows() - bodyTitleRows
}

func (a *App) frame() models.Frame {
	return models.Frame{
		Styles:   a.styles,
		Width:    max(a.width, minInputWidth),
		Height:   a.bodyRows(),
		Rows:     a.logRows(),
		Spinner:  a.spinner.View(),
		Input:    a.input.View(),
		Pager:    a.pager.View(),
		PagerPct: a.pager.ScrollPercent(),
	}
}

func (a *App) renderBody(f models.Frame) string {
	switch mode := a.orch.Mode(); mode {
	case orchestrator.ModeDashboard:
		return models.Dashboard(f, a.orch.Dashboard(), a.orch.Config())
	case orchestrator.ModeUpdate, orchestrator.ModeInstall, orchestrator.ModeRemove:
		return models.Operation(f, mode, a.orch.Op(mode))
	case orchestrator.ModeQuery:
		return models.Query(f, a.orch.Query())
	case orchestrator.ModeSettings:
		return models.Settings(f, a.orch.SettingsView())
	case orchestrator.ModeShell:
		return models.Shell(f, a.orch.Shell())
	}

	return ""
}

// statusLine is the left part of the footer: the active mode's error or
// notice, its progress while running, or the global status.
func (a *App) statusLine() string {
	return models.StatusLine(a.frame(), a.orch.Mode(), models.StatusSources{
		Op:       a.orch.Op(a.orch.Mode()),
		Shell:    a.orch.Shell(),
		Settings: a.orch.SettingsView(),
		Query:    a.orch.Query(),
		Global:   a.orch.Status(),
	})
}
