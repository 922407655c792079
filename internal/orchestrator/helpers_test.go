// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package orchestrator

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/lian/internal/config"
	"github.com/janderssonse/lian/internal/domain"
	"github.com/janderssonse/lian/internal/testutil"
	"github.com/stretchr/testify/require"
)

type fakeDetector struct {
	flavor domain.Flavor
	err    error
}

func (d fakeDetector) Detect(context.Context) (domain.Flavor, error) {
	return d.flavor, d.err
}

type fakeProber struct {
	info domain.SystemInfo
}

func (p fakeProber) Probe(context.Context) (domain.SystemInfo, error) {
	return p.info, nil
}

// fakeJob replays its events and finishes when closed.
type fakeJob struct {
	events  chan domain.OutputEvent
	result  domain.CommandResult
	mu      sync.Mutex
	cancels int
	closed  bool
}

func newFakeJob(result domain.CommandResult, lines ...domain.OutputEvent) *fakeJob {
	j := &fakeJob{events: make(chan domain.OutputEvent, len(lines)), result: result}
	for _, l := range lines {
		j.events <- l
	}

	return j
}

func (j *fakeJob) Events() <-chan domain.OutputEvent { return j.events }
func (j *fakeJob) Wait() domain.CommandResult       { return j.result }

func (j *fakeJob) Cancel() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.cancels++
}

// finish ends the event stream.
func (j *fakeJob) finish() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.closed {
		close(j.events)
		j.closed = true
	}
}

func (j *fakeJob) cancelCount() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.cancels
}

type fakeExecutor struct {
	jobs   []*fakeJob
	err    error
	starts [][]string
	privs  []bool
}

func (e *fakeExecutor) Start(_ domain.Operation, argv []string, needsPrivilege bool) (Job, error) {
	e.starts = append(e.starts, argv)
	e.privs = append(e.privs, needsPrivilege)

	if e.err != nil {
		return nil, e.err
	}

	if len(e.jobs) == 0 {
		return nil, domain.ErrBusy
	}

	job := e.jobs[0]
	e.jobs = e.jobs[1:]

	return job, nil
}

type fakeAuthorizer struct {
	err   error
	calls int
}

func (a *fakeAuthorizer) Authorize(done func(error) tea.Msg) tea.Cmd {
	a.calls++
	err := a.err

	return func() tea.Msg { return done(err) }
}

type fakeReports struct {
	saved []domain.Report
	err   error
}

func (r *fakeReports) Save(_ context.Context, rep domain.Report) (string, error) {
	if r.err != nil {
		return "", r.err
	}

	r.saved = append(r.saved, rep)

	return "/reports/" + rep.Operation.String() + ".md", nil
}

type fakeConfigStore struct {
	saved []config.Config
	err   error
}

func (s *fakeConfigStore) Save(cfg config.Config) (config.Config, error) {
	if s.err != nil {
		return config.Config{}, s.err
	}

	s.saved = append(s.saved, cfg)

	return cfg, nil
}

// fixture bundles an orchestrator with its fakes.
type fixture struct {
	o        *Orchestrator
	querier  *testutil.MockPackageQuerier
	analyzer *testutil.MockAnalyzer
	exec     *fakeExecutor
	auth     *fakeAuthorizer
	reports  *fakeReports
	configs  *fakeConfigStore
	now      time.Time
}

func newFixture(t *testing.T, cfg config.Config) *fixture {
	t.Helper()

	f := &fixture{
		querier:  &testutil.MockPackageQuerier{},
		analyzer: &testutil.MockAnalyzer{},
		exec:     &fakeExecutor{},
		auth:     &fakeAuthorizer{},
		reports:  &fakeReports{},
		configs:  &fakeConfigStore{},
		now:      time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC),
	}

	f.o = New(cfg, Deps{
		Detector:   fakeDetector{flavor: domain.FlavorParu},
		Prober:     fakeProber{info: domain.SystemInfo{Distro: "Arch Linux", Kernel: "6.12.4-arch1-1"}},
		Querier:    func(domain.Flavor) domain.PackageQuerier { return f.querier },
		Executor:   f.exec,
		Authorizer: f.auth,
		Analyzer:   func(config.Config) (domain.Analyzer, error) { return f.analyzer, nil },
		Reports:    func(config.Config) domain.ReportStore { return f.reports },
		Configs:    f.configs,
		Now:        func() time.Time { return f.now },
	})
	f.o.tickCmd = func() tea.Cmd { return nil }

	t.Cleanup(f.o.Shutdown)

	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

// drain runs cmd and everything it leads to, applying each message. Fake
// jobs must have finished or the drain blocks on their output.
func (f *fixture) drain(t *testing.T, cmd tea.Cmd) {
	t.Helper()

	queue := []tea.Cmd{cmd}

	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 10000, "event loop did not settle")

		next := queue[0]
		queue = queue[1:]

		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			queue = append(queue, f.o.Apply(msg))
		}
	}
}

// send applies msg and drains the result.
func (f *fixture) send(t *testing.T, msg tea.Msg) {
	t.Helper()

	f.drain(t, f.o.Apply(msg))
}

func (f *fixture) press(t *testing.T, actions ...Action) {
	t.Helper()

	for _, a := range actions {
		f.send(t, UserAction{Action: a})
	}
}

func pkgs(names ...string) []domain.Package {
	out := make([]domain.Package, len(names))
	for i, n := range names {
		out[i] = domain.Package{Repo: "extra", Name: n, Version: "1.0-1"}
	}

	return out
}

func logLines(lines ...string) []domain.OutputEvent {
	out := make([]domain.OutputEvent, len(lines))
	for i, l := range lines {
		out[i] = domain.NewLogLine(l, domain.Stdout)
	}

	return out
}

func noAI() config.Config {
	cfg := config.Default()
	cfg.AI = config.AIToggles{}

	return cfg
}
