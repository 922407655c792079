// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package tui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/lian/internal/config"
	"github.com/janderssonse/lian/internal/domain"
	"github.com/janderssonse/lian/internal/orchestrator"
	"github.com/stretchr/testify/require"
)

type stubDetector struct{}

func (stubDetector) Detect(context.Context) (domain.Flavor, error) { return domain.FlavorParu, nil }

type stubProber struct{}

func (stubProber) Probe(context.Context) (domain.SystemInfo, error) {
	return domain.SystemInfo{Distro: "Arch Linux", Kernel: "6.12.4-arch1-1"}, nil
}

// stubQuerier answers every query from fixed data.
type stubQuerier struct {
	installed []domain.Package
	detail    domain.PackageDetail
}

func (q stubQuerier) SearchSync(context.Context, string) ([]domain.Package, error) {
	return q.installed, nil
}

func (q stubQuerier) SearchLocal(context.Context, string) ([]domain.Package, error) {
	return q.installed, nil
}

func (q stubQuerier) Explicit(context.Context) ([]domain.Package, error) { return q.installed, nil }

func (q stubQuerier) Detail(context.Context, string) (domain.PackageDetail, error) {
	return q.detail, nil
}

func (q stubQuerier) PendingUpdates(context.Context) ([]domain.Update, error) {
	return []domain.Update{{Name: "vim", OldVersion: "9.0-1", NewVersion: "9.1-1"}}, nil
}

func (q stubQuerier) PreviewInstall(_ context.Context, pkgs []string) (domain.Preview, error) {
	return domain.Preview{Operation: domain.OpInstall, Targets: pkgs}, nil
}

func (q stubQuerier) PreviewRemove(_ context.Context, pkgs []string) (domain.Preview, error) {
	return domain.Preview{Operation: domain.OpRemove, Targets: pkgs}, nil
}

func (q stubQuerier) Counts(context.Context) (domain.Counts, error) {
	return domain.Counts{Installed: 1234, Explicit: 120, Upgrades: 1}, nil
}

// heldJob never produces output until cancelled.
type heldJob struct {
	mu        sync.Mutex
	cancelled bool
}

func (j *heldJob) Events() <-chan domain.OutputEvent { return make(chan domain.OutputEvent) }
func (j *heldJob) Wait() domain.CommandResult       { return domain.CommandResult{} }

func (j *heldJob) Cancel() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.cancelled = true
}

func (j *heldJob) wasCancelled() bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.cancelled
}

type stubExecutor struct {
	job   *heldJob
	argvs [][]string
}

func (e *stubExecutor) Start(_ domain.Operation, argv []string, _ bool) (orchestrator.Job, error) {
	e.argvs = append(e.argvs, argv)

	return e.job, nil
}

type stubAuthorizer struct{}

func (stubAuthorizer) Authorize(done func(error) tea.Msg) tea.Cmd {
	return func() tea.Msg { return done(nil) }
}

type stubConfigs struct{}

func (stubConfigs) Save(cfg config.Config) (config.Config, error) { return cfg, nil }

type testApp struct {
	*App
	exec *stubExecutor
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	exec := &stubExecutor{job: &heldJob{}}
	querier := stubQuerier{
		installed: []domain.Package{
			{Repo: "extra", Name: "vim", Version: "9.1-1", Installed: true},
			{Repo: "extra", Name: "git", Version: "2.47-1", Installed: true},
		},
		detail: domain.PackageDetail{
			Name:   "vim",
			Fields: []domain.Field{{Key: "Name", Value: "vim"}, {Key: "Version", Value: "9.1-1"}},
			Files:  []string{"/usr/bin/vim"},
			Dirs:   []string{"/usr/share/vim/"},
		},
	}

	cfg := config.Default()
	cfg.AI = config.AIToggles{}

	orch := orchestrator.New(cfg, orchestrator.Deps{
		Detector:   stubDetector{},
		Prober:     stubProber{},
		Querier:    func(domain.Flavor) domain.PackageQuerier { return querier },
		Executor:   exec,
		Authorizer: stubAuthorizer{},
		Configs:    stubConfigs{},
	})
	t.Cleanup(orch.Shutdown)

	app := New(orch, WithMarkdownRenderer(func(md string, _ int) string { return md }))
	ta := &testApp{App: app, exec: exec}
	ta.update(t, tea.WindowSizeMsg{Width: 100, Height: 30})
	ta.update(t, orchestrator.SwitchMode{Mode: orchestrator.ModeDashboard})

	return ta
}

// update feeds msg through the model and drains the commands it returns.
func (ta *testApp) update(t *testing.T, msg tea.Msg) {
	t.Helper()

	_, cmd := ta.Update(msg)
	ta.drain(t, cmd)
}

func (ta *testApp) drain(t *testing.T, cmd tea.Cmd) {
	t.Helper()

	queue := []tea.Cmd{cmd}

	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 1000, "event loop did not settle")

		next := queue[0]
		queue = queue[1:]

		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case nil, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, c := ta.Update(msg)
			queue = append(queue, c)
		}
	}
}

// typeText sends each rune as its own key press.
func (ta *testApp) typeText(t *testing.T, text string) {
	t.Helper()

	for _, r := range text {
		ta.update(t, runeKey(r))
	}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func specialKey(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}
