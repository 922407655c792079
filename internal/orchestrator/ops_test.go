// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package orchestrator

import (
	"errors"
	"testing"
	"time"

	"github.com/janderssonse/lian/internal/config"
	"github.com/janderssonse/lian/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func finishedJob(result domain.CommandResult, lines ...domain.OutputEvent) *fakeJob {
	j := newFakeJob(result, lines...)
	j.finish()

	return j
}

var ok3 = domain.CommandResult{Success: true, Stdout: "line1\nline2\nline3\n"}

func (f *fixture) expectUpdatePreview(updates []domain.Update) {
	f.querier.On("Explicit", mock.Anything).Return(pkgs("vim"), nil)
	f.querier.On("PendingUpdates", mock.Anything).Return(updates, nil)
}

func TestUpdate_SuccessWithoutAnalysis(t *testing.T) {
	t.Parallel()

	f := newFixture(t, noAI())
	f.expectUpdatePreview([]domain.Update{{Name: "linux", OldVersion: "6.12.3", NewVersion: "6.12.4"}})
	f.exec.jobs = []*fakeJob{finishedJob(ok3, logLines("line1", "line2", "line3")...)}

	f.send(t, SwitchMode{Mode: ModeUpdate})

	st := f.o.Op(ModeUpdate)
	require.Equal(t, PhasePreviewingChanges, st.Phase)
	assert.Equal(t, domain.FlavorParu, st.Flavor)
	assert.Len(t, st.Preview.Updates, 1)

	f.press(t, ActionConfirm)

	assert.Equal(t, PhaseCompleted, st.Phase)
	assert.Equal(t, 1, f.auth.calls)
	assert.Equal(t, [][]string{{"paru", "-Syu", "--noconfirm"}}, f.exec.starts)
	assert.Equal(t, []string{"$ paru -Syu --noconfirm", "line1", "line2", "line3"}, st.Output.Strings())
	assert.Equal(t, "line1\nline2\nline3\n", st.Result.Stdout)
	assert.False(t, f.o.Busy())
}

func TestUpdate_AnalysisAndReport(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.APIKey = "sk-test"

	f := newFixture(t, cfg)
	f.expectUpdatePreview(nil)
	f.exec.jobs = []*fakeJob{finishedJob(ok3, logLines("line1", "line2", "line3")...)}
	f.analyzer.On("Analyze", mock.Anything, mock.MatchedBy(func(req domain.AnalysisRequest) bool {
		return req.Model == config.DefaultModel && req.Temperature == config.DefaultTemperature
	})).Return("## Upgrade went fine", nil)

	f.querier.On("Counts", mock.Anything).Return(domain.Counts{}, nil)
	f.drain(t, f.o.Init())
	f.send(t, SwitchMode{Mode: ModeUpdate})
	f.press(t, ActionConfirm)

	st := f.o.Op(ModeUpdate)
	require.Equal(t, PhaseAnalysisComplete, st.Phase)
	assert.Equal(t, "## Upgrade went fine", st.Analysis)
	assert.Equal(t, ViewAnalysis, st.View)
	assert.Equal(t, "/reports/update.md", st.ReportPath)

	require.Len(t, f.reports.saved, 1)
	assert.Equal(t, "Arch Linux", f.reports.saved[0].Distro)
	assert.Equal(t, f.now, f.reports.saved[0].CreatedAt)

	f.press(t, ActionToggleView)
	assert.Equal(t, ViewLog, st.View)
	f.press(t, ActionToggleView)
	assert.Equal(t, ViewAnalysis, st.View)

	f.analyzer.AssertExpectations(t)
}

func TestUpdate_AnalysisWithoutKey(t *testing.T) {
	t.Parallel()

	f := newFixture(t, config.Default())
	f.expectUpdatePreview(nil)
	f.exec.jobs = []*fakeJob{finishedJob(ok3)}

	f.send(t, SwitchMode{Mode: ModeUpdate})
	f.press(t, ActionConfirm)

	st := f.o.Op(ModeUpdate)
	require.Equal(t, PhaseCompleted, st.Phase)
	assert.Contains(t, st.Notice, "no API key")

	f.press(t, ActionAnalyze)
	assert.Equal(t, PhaseError, st.Phase)
	assert.Contains(t, st.Err, "Analysis is not configured")
	f.analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}

func TestUpdate_AnalysisFailureKeepsResult(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.APIKey = "sk-test"

	f := newFixture(t, cfg)
	f.expectUpdatePreview(nil)
	f.exec.jobs = []*fakeJob{finishedJob(ok3)}
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return("", errors.New("Authentication Fails")).Once()
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return("retry worked", nil).Once()

	f.send(t, SwitchMode{Mode: ModeUpdate})
	f.press(t, ActionConfirm)

	st := f.o.Op(ModeUpdate)
	require.Equal(t, PhaseError, st.Phase)
	assert.Equal(t, "Analysis failed: Authentication Fails", st.Err)
	assert.True(t, st.Result.Success)

	f.press(t, ActionAnalyze)
	assert.Equal(t, PhaseAnalysisComplete, st.Phase)
	assert.Equal(t, "retry worked", st.Analysis)
}

func TestUpdate_CommandFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, noAI())
	f.expectUpdatePreview(nil)
	f.exec.jobs = []*fakeJob{finishedJob(domain.CommandResult{
		ExitCode: 1,
		Stderr:   "error: failed to init transaction (unable to lock database)\n",
	}, domain.NewLogLine("error: failed to init transaction (unable to lock database)", domain.Stderr))}

	f.send(t, SwitchMode{Mode: ModeUpdate})
	f.press(t, ActionConfirm)

	st := f.o.Op(ModeUpdate)
	require.Equal(t, PhaseError, st.Phase)
	assert.Contains(t, st.Err, "Package database is locked")
	assert.Contains(t, st.Err, "unable to lock database")
	assert.Equal(t, "⚠ error: failed to init transaction (unable to lock database)", st.Output.Strings()[1])

	f.press(t, ActionRetry)
	assert.Equal(t, PhasePreviewingChanges, st.Phase)
}

func TestUpdate_SpawnError(t *testing.T) {
	t.Parallel()

	f := newFixture(t, noAI())
	f.expectUpdatePreview(nil)
	f.exec.err = &domain.SpawnError{Argv: []string{"paru"}, Err: errors.New("executable file not found in $PATH")}

	f.send(t, SwitchMode{Mode: ModeUpdate})
	f.press(t, ActionConfirm)

	st := f.o.Op(ModeUpdate)
	assert.Equal(t, PhaseError, st.Phase)
	assert.Contains(t, st.Err, "Target not found")
	assert.False(t, f.o.Busy())
}

func TestUpdate_DetectionFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, noAI())
	f.o.deps.Detector = fakeDetector{err: domain.ErrNoPackageManager}

	f.send(t, SwitchMode{Mode: ModeUpdate})

	assert.Equal(t, PhaseError, f.o.Op(ModeUpdate).Phase)
}

func TestUpdate_AuthorizationFailureReturnsToPreview(t *testing.T) {
	t.Parallel()

	f := newFixture(t, noAI())
	f.expectUpdatePreview(nil)
	f.auth.err = errors.New("incorrect password attempts")

	f.send(t, SwitchMode{Mode: ModeUpdate})
	f.press(t, ActionConfirm)

	st := f.o.Op(ModeUpdate)
	assert.Equal(t, PhasePreviewingChanges, st.Phase)
	assert.False(t, st.Authorizing)
	assert.Contains(t, st.Notice, "Authorization failed")
	assert.Empty(t, f.exec.starts)
}

func TestUpdate_CancelWhileExecuting(t *testing.T) {
	t.Parallel()

	f := newFixture(t, noAI())
	f.expectUpdatePreview(nil)

	job := newFakeJob(domain.CommandResult{Cancelled: true, Stderr: domain.CancelledMessage}, logLines("downloading...")...)
	f.exec.jobs = []*fakeJob{job}

	f.send(t, SwitchMode{Mode: ModeUpdate})

	// Confirm authorizes, the authorization spawns; stop before reading output.
	authorize := f.o.Apply(UserAction{Action: ActionConfirm})
	waitFirst := f.o.Apply(authorize())

	st := f.o.Op(ModeUpdate)
	require.Equal(t, PhaseExecuting, st.Phase)
	require.True(t, f.o.Busy())

	waitNext := f.o.Apply(waitFirst())
	assert.Equal(t, "downloading...", st.Output.Strings()[1])

	f.send(t, UserAction{Action: ActionCancel})
	assert.Equal(t, 1, job.cancelCount())
	assert.Equal(t, PhasePreviewingChanges, st.Phase, "cancel returns to the entry phase at once")
	assert.Equal(t, cancelledNotice, st.Notice)
	assert.True(t, f.o.Busy(), "the job stays outstanding until reaped")

	f.press(t, ActionCancel)
	assert.Equal(t, 1, job.cancelCount(), "second cancel is a no-op")

	f.press(t, ActionConfirm)
	assert.Equal(t, busyNotice, st.Notice)
	assert.Len(t, f.exec.starts, 1, "no second spawn while one is outstanding")

	job.finish()
	f.drain(t, waitNext)

	assert.False(t, f.o.Busy())
	assert.Equal(t, PhasePreviewingChanges, st.Phase, "the late result is not applied to the reset mode")
}

func TestInstall_SearchSelectPreviewConfirm(t *testing.T) {
	t.Parallel()

	f := newFixture(t, noAI())
	f.querier.On("SearchSync", mock.Anything, "vim").Return(pkgs("vim", "gvim", "vim-plug"), nil)
	f.querier.On("Explicit", mock.Anything).Return(pkgs("base"), nil)
	f.querier.On("PreviewInstall", mock.Anything, []string{"vim", "vim-plug"}).
		Return(domain.Preview{Operation: domain.OpInstall, Targets: []string{"vim", "vim-plug"}}, nil)
	f.exec.jobs = []*fakeJob{finishedJob(domain.CommandResult{Success: true})}

	f.send(t, SwitchMode{Mode: ModeInstall})

	st := f.o.Op(ModeInstall)
	require.Equal(t, PhaseSearching, st.Phase)

	f.send(t, InputChanged{Text: "vim"})
	f.advance(250 * time.Millisecond)
	f.send(t, tickMsg{})
	require.Len(t, st.Results, 3)

	f.press(t, ActionSelect, ActionDown, ActionDown, ActionSelect, ActionConfirm)
	require.Equal(t, PhasePreviewingInstall, st.Phase)
	assert.Equal(t, []string{"vim", "vim-plug"}, st.Targets)
	assert.False(t, st.PreviewLoading)

	f.press(t, ActionConfirm)
	assert.Equal(t, PhaseCompleted, st.Phase)
	assert.Equal(t, [][]string{{"paru", "-S", "--noconfirm", "vim", "vim-plug"}}, f.exec.starts)
}

func TestInstall_ConfirmWithoutSelectionUsesHighlighted(t *testing.T) {
	t.Parallel()

	f := newFixture(t, noAI())
	f.querier.On("SearchSync", mock.Anything, "git").Return(pkgs("git", "git-lfs"), nil)
	f.querier.On("Explicit", mock.Anything).Return(pkgs("base"), nil)
	f.querier.On("PreviewInstall", mock.Anything, []string{"git-lfs"}).Return(domain.Preview{}, nil)

	f.send(t, SwitchMode{Mode: ModeInstall})
	f.send(t, InputChanged{Text: "git"})
	f.advance(time.Second)
	f.send(t, tickMsg{})
	f.press(t, ActionDown, ActionConfirm)

	st := f.o.Op(ModeInstall)
	assert.Equal(t, []string{"git-lfs"}, st.Targets)

	f.press(t, ActionBack)
	assert.Equal(t, PhaseSearching, st.Phase)
	assert.Len(t, st.Results, 2, "results survive going back from the preview")
}

func TestInstall_StaleSearchResultsDropped(t *testing.T) {
	t.Parallel()

	f := newFixture(t, noAI())
	f.querier.On("SearchSync", mock.Anything, "fire").Return(pkgs("firewalld"), nil)
	f.querier.On("SearchSync", mock.Anything, "firefox").Return(pkgs("firefox"), nil)

	f.send(t, SwitchMode{Mode: ModeInstall})

	f.send(t, InputChanged{Text: "fire"})
	f.advance(300 * time.Millisecond)
	first := f.o.Apply(tickMsg{})

	f.send(t, InputChanged{Text: "firefox"})
	f.advance(100 * time.Millisecond)
	f.send(t, tickMsg{})
	assert.True(t, f.o.Op(ModeInstall).search.Pending(), "quiet interval not over yet")

	f.advance(200 * time.Millisecond)
	second := f.o.Apply(tickMsg{})

	f.drain(t, second)
	f.drain(t, first)

	st := f.o.Op(ModeInstall)
	require.Len(t, st.Results, 1)
	assert.Equal(t, "firefox", st.Results[0].Name)
}

func TestRemove_BrowseAndPreview(t *testing.T) {
	t.Parallel()

	f := newFixture(t, noAI())
	f.querier.On("Explicit", mock.Anything).Return(pkgs("htop", "btop"), nil)
	f.querier.On("PreviewRemove", mock.Anything, []string{"htop"}).
		Return(domain.Preview{Operation: domain.OpRemove, Targets: []string{"htop-3.3.0-3"}}, nil)
	f.exec.jobs = []*fakeJob{finishedJob(domain.CommandResult{Success: true})}

	f.send(t, SwitchMode{Mode: ModeRemove})

	st := f.o.Op(ModeRemove)
	require.Equal(t, PhaseBrowsing, st.Phase)
	require.Len(t, st.Results, 2)

	f.press(t, ActionConfirm)
	require.Equal(t, PhasePreviewingRemove, st.Phase)
	assert.Equal(t, []string{"htop-3.3.0-3"}, st.Preview.Targets)

	f.press(t, ActionConfirm)
	assert.Equal(t, [][]string{{"paru", "-Rns", "--noconfirm", "htop"}}, f.exec.starts)
}

func TestProgressLinesOverwriteAndUpdateFooter(t *testing.T) {
	t.Parallel()

	f := newFixture(t, noAI())
	f.expectUpdatePreview(nil)
	f.exec.jobs = []*fakeJob{newFakeJob(ok3,
		domain.NewLogLine(":: Retrieving packages...", domain.Stdout),
		domain.NewProgressLine("firefox-134.0.1-1-x86_64  38.2 MiB  5.4 MiB/s  00:07", domain.Stdout),
		domain.NewProgressLine("firefox-134.0.1-1-x86_64  78.5 MiB  5.4 MiB/s  00:00", domain.Stdout),
		domain.NewLogLine("(1/2) upgrading firefox", domain.Stdout),
	)}

	f.send(t, SwitchMode{Mode: ModeUpdate})

	authorize := f.o.Apply(UserAction{Action: ActionConfirm})
	wait := f.o.Apply(authorize())

	st := f.o.Op(ModeUpdate)
	for range 3 {
		wait = f.o.Apply(wait())
	}

	assert.Equal(t, []string{
		"$ paru -Syu --noconfirm",
		":: Retrieving packages...",
		"firefox-134.0.1-1-x86_64  78.5 MiB  5.4 MiB/s  00:00",
	}, st.Output.Strings())
	assert.Equal(t, "78.5 MiB", st.Progress.Size)
	assert.Equal(t, "00:00", st.Progress.ETA)

	wait = f.o.Apply(wait())
	assert.Equal(t, "(1/2) upgrading firefox", st.Progress.Label)

	f.exec.jobs = nil
	f.o.job.(*fakeJob).finish()
	f.drain(t, wait)
	assert.Equal(t, PhaseCompleted, st.Phase)
}

func TestSwitchingAwayKeepsRunningMode(t *testing.T) {
	t.Parallel()

	f := newFixture(t, noAI())
	f.expectUpdatePreview(nil)

	job := newFakeJob(ok3)
	f.exec.jobs = []*fakeJob{job}

	f.send(t, SwitchMode{Mode: ModeUpdate})

	authorize := f.o.Apply(UserAction{Action: ActionConfirm})
	wait := f.o.Apply(authorize())

	f.send(t, SwitchMode{Mode: ModeShell})
	f.send(t, InputChanged{Text: "ls"})
	f.press(t, ActionConfirm)
	assert.Equal(t, busyNotice, f.o.Shell().Notice, "shell refuses while update runs")

	f.send(t, SwitchMode{Mode: ModeUpdate})
	assert.Equal(t, PhaseExecuting, f.o.Op(ModeUpdate).Phase)

	job.finish()
	f.drain(t, wait)
	assert.Equal(t, PhaseCompleted, f.o.Op(ModeUpdate).Phase)
}
