// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/lian/internal/catalog"
	"github.com/janderssonse/lian/internal/domain"
	"github.com/janderssonse/lian/internal/stream"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

const (
	cancelledNotice = "Operation cancelled"
	busyNotice      = "Another command is still running"
	stderrTail      = 20
)

// stepLine matches pacman's "(3/12) upgrading foo" transaction lines.
var stepLine = regexp.MustCompile(`^\(\s*\d+/\d+\)\s+\S`)

// resetOp returns mode to DetectingManager and starts detection.
func (o *Orchestrator) resetOp(mode Mode) tea.Cmd {
	st := o.ops[mode]

	st.epoch++
	st.search.Reset()
	*st = OpState{
		Op:     st.Op,
		Phase:  PhaseDetectingManager,
		Output: NewBuffer(MaxLines),
		epoch:  st.epoch,
		search: st.search,
	}

	return o.detectCmd(mode, st.epoch)
}

func (o *Orchestrator) opFail(st *OpState, err error) {
	st.Phase = PhaseError
	st.Err = domain.FormatErrorMessage(err, false)
	st.PreviewLoading, st.Authorizing = false, false
}

func (o *Orchestrator) applyDetected(msg managerDetected) tea.Cmd {
	if msg.mode == ModeDashboard {
		return o.applyDashboardDetected(msg)
	}

	st, ok := o.ops[msg.mode]
	if !ok || msg.epoch != st.epoch || st.Phase != PhaseDetectingManager {
		return nil
	}

	if msg.err != nil {
		o.opFail(st, msg.err)

		return nil
	}

	o.flavor, st.Flavor = msg.flavor, msg.flavor
	st.Phase = selectPhase(st.Op)

	switch st.Op {
	case domain.OpUpdate:
		st.PreviewLoading = true

		return o.previewCmd(msg.mode, st.epoch, st.Op, nil)
	case domain.OpRemove:
		return o.searchCmd(msg.mode, st.search.Flush())
	default:
		return nil
	}
}

func (o *Orchestrator) opInput(mode Mode, text string) {
	st := o.ops[mode]
	if st.Phase != PhaseSearching && st.Phase != PhaseBrowsing {
		return
	}

	st.Query = text
	st.search.NoteInput(text)
}

func (o *Orchestrator) applySearch(msg searchResult) {
	if msg.mode == ModeQuery {
		o.applyQuerySearch(msg)

		return
	}

	st, ok := o.ops[msg.mode]
	if !ok || !st.search.Accept(msg.seq) {
		return
	}

	st.Results, st.Cursor, st.Selected, st.SearchErr = msg.pkgs, 0, nil, ""
	if msg.err != nil {
		st.SearchErr = domain.FormatErrorMessage(msg.err, false)
	}
}

func (o *Orchestrator) applyPreview(msg previewLoaded) {
	st, ok := o.ops[msg.mode]
	if !ok || msg.epoch != st.epoch || !st.Phase.Previewing() {
		return
	}

	st.PreviewLoading = false

	if msg.err != nil {
		o.opFail(st, msg.err)

		return
	}

	st.Preview, st.before = msg.preview, msg.before
}

func (o *Orchestrator) opAction(mode Mode, a Action) tea.Cmd {
	st := o.ops[mode]

	switch st.Phase {
	case PhaseSearching, PhaseBrowsing:
		return o.browseAction(mode, st, a)
	case PhasePreviewingChanges, PhasePreviewingInstall, PhasePreviewingRemove:
		return o.previewAction(mode, st, a)
	case PhaseExecuting:
		return o.executingAction(mode, st, a)
	case PhaseAnalyzing:
		if a == ActionCancel {
			o.cancelAnalysis(st)
		} else {
			o.scroll(st.Output, a)
		}
	case PhaseCompleted, PhaseAnalysisComplete, PhaseError:
		return o.terminalAction(mode, st, a)
	case PhaseDetectingManager:
		if a == ActionBack {
			return o.enter(ModeDashboard)
		}
	}

	return nil
}

func (o *Orchestrator) browseAction(mode Mode, st *OpState, a Action) tea.Cmd {
	switch a {
	case ActionUp:
		st.Cursor = max(st.Cursor-1, 0)
	case ActionDown:
		st.Cursor = min(st.Cursor+1, max(len(st.Results)-1, 0))
	case ActionPageUp:
		st.Cursor = max(st.Cursor-o.rows, 0)
	case ActionPageDown:
		st.Cursor = min(st.Cursor+o.rows, max(len(st.Results)-1, 0))
	case ActionSelect:
		if st.Cursor < len(st.Results) {
			if st.Selected == nil {
				st.Selected = make(map[int]bool)
			}

			st.Selected[st.Cursor] = !st.Selected[st.Cursor]
			if !st.Selected[st.Cursor] {
				delete(st.Selected, st.Cursor)
			}
		}
	case ActionConfirm:
		targets := st.SelectedNames()
		if len(targets) == 0 {
			return nil
		}

		st.Targets = targets
		st.Phase = previewPhase(st.Op)
		st.Preview = domain.Preview{}
		st.PreviewLoading, st.Notice, st.Err = true, "", ""

		return o.previewCmd(mode, st.epoch, st.Op, targets)
	case ActionBack:
		return o.enter(ModeDashboard)
	}

	return nil
}

func (o *Orchestrator) previewAction(mode Mode, st *OpState, a Action) tea.Cmd {
	switch a {
	case ActionConfirm:
		if st.PreviewLoading || st.Authorizing {
			return nil
		}

		if o.job != nil {
			st.Notice = busyNotice

			return nil
		}

		cmd, err := catalog.Build(st.Op, st.Flavor, st.Targets)
		if err != nil {
			o.opFail(st, err)

			return nil
		}

		st.Command = cmd
		st.Authorizing, st.Notice = true, ""

		return o.authorizeCmd(mode, st.epoch)
	case ActionBack:
		if st.Authorizing {
			return nil
		}

		if st.Op == domain.OpUpdate {
			return o.enter(ModeDashboard)
		}

		st.Phase = selectPhase(st.Op)
		st.PreviewLoading = false
	}

	return nil
}

func (o *Orchestrator) applyAuthorized(msg authorized) tea.Cmd {
	if msg.mode == ModeShell {
		return o.applyShellAuthorized(msg)
	}

	st, ok := o.ops[msg.mode]
	if !ok || msg.epoch != st.epoch || !st.Phase.Previewing() || !st.Authorizing {
		return nil
	}

	st.Authorizing = false

	if msg.err != nil {
		o.logger.Warn("privilege authorization failed", zap.Error(msg.err))
		st.Notice = "Authorization failed: " + msg.err.Error()

		return nil
	}

	run, job, err := o.startJob(msg.mode, st.Op, st.Command)
	if err != nil {
		if errors.Is(err, domain.ErrBusy) {
			st.Notice = busyNotice

			return nil
		}

		o.opFail(st, err)

		return nil
	}

	st.run = run
	st.Phase = PhaseExecuting
	st.Output.Clear()
	st.Output.Notice("$ " + strings.Join(st.Command.Argv, " "))
	st.Progress = domain.ProgressInfo{}

	return waitOutput(run, job)
}

// startJob spawns cmd and records it as the one outstanding job.
func (o *Orchestrator) startJob(mode Mode, op domain.Operation, cmd catalog.Command) (uint64, Job, error) {
	if o.job != nil {
		return 0, nil, domain.ErrBusy
	}

	job, err := o.deps.Executor.Start(op, cmd.Argv, cmd.NeedsPrivilege)
	if err != nil {
		o.logger.Warn("command did not start", zap.Strings("argv", cmd.Argv), zap.Error(err))

		return 0, nil, err
	}

	o.nextRun++
	o.job, o.jobRun, o.jobMode = job, o.nextRun, mode
	o.status = ""

	o.logger.Info("command started", zap.Stringer("mode", mode), zap.Strings("argv", cmd.Argv))

	return o.jobRun, job, nil
}

func (o *Orchestrator) executingAction(mode Mode, st *OpState, a Action) tea.Cmd {
	if a != ActionCancel {
		o.scroll(st.Output, a)

		return nil
	}

	o.cancelJob()

	cmd := o.resetOp(mode)
	st.Notice = cancelledNotice

	return cmd
}

// cancelJob starts the signal ladder for the outstanding job. The UI moves
// on at once; the job stays outstanding until it is reaped.
func (o *Orchestrator) cancelJob() {
	if o.job == nil {
		return
	}

	o.job.Cancel()
	o.status = "Stopping the cancelled command…"
	o.logger.Info("command cancelled", zap.Uint64("run", o.jobRun))
}

func (o *Orchestrator) applyOutput(msg outputMsg) tea.Cmd {
	if o.job == nil || msg.run != o.jobRun {
		return nil
	}

	job := o.job
	if !msg.ok {
		return waitResult(msg.run, job)
	}

	if buf, progress := o.runTarget(msg.run); buf != nil {
		buf.Push(msg.event)
		updateProgress(progress, msg.event)
	}

	return waitOutput(msg.run, job)
}

// runTarget finds the display of the mode still showing run.
func (o *Orchestrator) runTarget(run uint64) (*Buffer, *domain.ProgressInfo) {
	if o.jobMode == ModeShell {
		if o.shell.run == run && o.shell.Phase == PhaseRunning {
			return o.shell.Output, &o.shell.Progress
		}

		return nil, nil
	}

	if st, ok := o.ops[o.jobMode]; ok && st.run == run && st.Phase == PhaseExecuting {
		return st.Output, &st.Progress
	}

	return nil, nil
}

func updateProgress(p *domain.ProgressInfo, ev domain.OutputEvent) {
	switch {
	case ev.IsProgress():
		*p = stream.ExtractProgress(ev.Text)
	case stepLine.MatchString(ev.Text):
		*p = domain.ProgressInfo{Label: runewidth.Truncate(strings.TrimSpace(ev.Text), stream.LabelWidth, "…")}
	}
}

func (o *Orchestrator) applyFinished(msg commandFinished) tea.Cmd {
	if msg.run == o.jobRun {
		o.job = nil
		o.status = ""
	}

	o.logger.Info("command finished",
		zap.Uint64("run", msg.run),
		zap.Bool("success", msg.result.Success),
		zap.Bool("cancelled", msg.result.Cancelled))

	if o.jobMode == ModeShell {
		o.finishShell(msg)

		return nil
	}

	st, ok := o.ops[o.jobMode]
	if !ok || st.run != msg.run || st.Phase != PhaseExecuting {
		return nil
	}

	return o.finishOp(o.jobMode, st, msg.result)
}

func (o *Orchestrator) finishOp(mode Mode, st *OpState, result domain.CommandResult) tea.Cmd {
	st.Result = result
	st.Progress = domain.ProgressInfo{}

	switch {
	case result.Cancelled:
		cmd := o.resetOp(mode)
		st.Notice = cancelledNotice

		return cmd
	case !result.Success:
		st.Phase = PhaseError
		st.Err = commandFailure(result)

		return nil
	}

	if !o.cfg.AI.Enabled(st.Op) {
		st.Phase = PhaseCompleted

		return nil
	}

	if !o.cfg.HasAPIKey() {
		st.Phase = PhaseCompleted
		st.Notice = "AI analysis skipped: no API key configured"

		return nil
	}

	return o.startAnalysis(mode, st)
}

// commandFailure is the short message plus the tail of stderr.
func commandFailure(result domain.CommandResult) string {
	stderr := strings.TrimSpace(result.Stderr)
	msg := domain.FormatErrorMessage(fmt.Errorf("command exited with status %d: %s", result.ExitCode, stderr), false)

	if stderr == "" {
		return msg
	}

	lines := strings.Split(stderr, "\n")
	if len(lines) > stderrTail {
		lines = lines[len(lines)-stderrTail:]
	}

	return msg + "\n" + strings.Join(lines, "\n")
}

func (o *Orchestrator) startAnalysis(mode Mode, st *OpState) tea.Cmd {
	st.Phase = PhaseAnalyzing
	st.Notice, st.Err = "", ""

	output := st.Result.Stdout
	if st.Result.Stderr != "" {
		output += "\n" + st.Result.Stderr
	}

	return o.analysisCmd(analysisInput{
		mode:    mode,
		epoch:   st.epoch,
		cfg:     o.cfg,
		flavor:  st.Flavor,
		system:  o.system,
		op:      st.Op,
		targets: st.Targets,
		output:  output,
		before:  st.before,
		updates: st.Preview.Updates,
	})
}

func (o *Orchestrator) cancelAnalysis(st *OpState) {
	if o.analysisCancel != nil {
		o.analysisCancel()
		o.analysisCancel = nil
	}

	st.Phase = PhaseCompleted
	st.Notice = "Analysis cancelled"
}

func (o *Orchestrator) applyAnalysis(msg analysisDone) tea.Cmd {
	st, ok := o.ops[msg.mode]
	if !ok || msg.epoch != st.epoch || st.Phase != PhaseAnalyzing {
		return nil
	}

	o.analysisCancel = nil

	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return nil
		}

		o.logger.Warn("analysis failed", zap.Error(msg.err))
		st.Phase = PhaseError
		st.Err = "Analysis failed: " + msg.err.Error()

		return nil
	}

	st.Phase = PhaseAnalysisComplete
	st.Analysis = msg.text
	st.View = ViewAnalysis

	return o.saveReportCmd(msg.mode, st.epoch, domain.Report{
		Content:   msg.text,
		Distro:    o.system.Distro,
		Operation: st.Op,
		CreatedAt: o.deps.Now(),
	})
}

func (o *Orchestrator) applyReport(msg reportSaved) {
	if msg.err != nil {
		o.logger.Warn("report not saved", zap.Error(msg.err))
	}

	st, ok := o.ops[msg.mode]
	if !ok || msg.epoch != st.epoch {
		return
	}

	if msg.err != nil {
		st.Notice = "Report not saved: " + msg.err.Error()

		return
	}

	st.ReportPath = msg.path
	st.Notice = "Report saved to " + msg.path
}

func (o *Orchestrator) terminalAction(mode Mode, st *OpState, a Action) tea.Cmd {
	switch a {
	case ActionRetry:
		return o.resetOp(mode)
	case ActionToggleView:
		if st.View == ViewLog && st.Analysis != "" {
			st.View = ViewAnalysis
		} else {
			st.View = ViewLog
		}
	case ActionAnalyze:
		// An analysis can be requested after a successful run, or retried
		// after it failed.
		if !st.Result.Success || st.Phase == PhaseAnalysisComplete {
			return nil
		}

		if !o.cfg.HasAPIKey() {
			o.opFail(st, domain.ErrNotConfigured)

			return nil
		}

		return o.startAnalysis(mode, st)
	case ActionBack:
		return o.enter(ModeDashboard)
	default:
		o.scroll(st.Output, a)
	}

	return nil
}

func (o *Orchestrator) scroll(buf *Buffer, a Action) {
	switch a {
	case ActionUp:
		buf.Scroll(-1, o.rows)
	case ActionDown:
		buf.Scroll(1, o.rows)
	case ActionPageUp:
		buf.Scroll(-o.rows, o.rows)
	case ActionPageDown:
		buf.Scroll(o.rows, o.rows)
	}
}
