// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package orchestrator

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/lian/internal/catalog"
	"github.com/janderssonse/lian/internal/domain"
	"go.uber.org/zap"
)

const clearCommand = "clear"

// enterShell resets the shell, keeping its history.
func (o *Orchestrator) enterShell() {
	sh := &o.shell
	if sh.Phase == PhaseRunning {
		return
	}

	sh.epoch++
	*sh = ShellState{
		Phase:   PhaseAwaitingInput,
		History: sh.History,
		Output:  NewBuffer(MaxLines),
		histPos: len(sh.History),
		epoch:   sh.epoch,
	}
}

func (o *Orchestrator) shellInput(text string) {
	sh := &o.shell
	if sh.Phase == PhaseRunning {
		return
	}

	if sh.Phase == PhaseDone || sh.Phase == PhaseError {
		sh.Phase = PhaseAwaitingInput
	}

	sh.Input = text
}

func (o *Orchestrator) shellAction(a Action) tea.Cmd {
	sh := &o.shell

	if sh.Phase == PhaseRunning {
		switch a {
		case ActionCancel:
			o.cancelJob()

			sh.run = 0
			sh.Phase = PhaseAwaitingInput
			sh.Notice = cancelledNotice
			sh.Output.Notice(cancelledNotice)
		default:
			o.scroll(sh.Output, a)
		}

		return nil
	}

	switch a {
	case ActionUp:
		sh.recall(-1)
	case ActionDown:
		sh.recall(1)
	case ActionPageUp, ActionPageDown:
		o.scroll(sh.Output, a)
	case ActionConfirm:
		return o.runShellLine()
	case ActionBack:
		return o.enter(ModeDashboard)
	}

	return nil
}

func (o *Orchestrator) runShellLine() tea.Cmd {
	sh := &o.shell
	if sh.Authorizing {
		return nil
	}

	line := strings.TrimSpace(sh.Input)
	if line == "" {
		return nil
	}

	sh.remember(line)
	sh.Input, sh.Err, sh.Notice = "", "", ""
	sh.Phase = PhaseAwaitingInput

	if line == clearCommand {
		sh.Output.Clear()

		return nil
	}

	if o.job != nil {
		sh.Notice = busyNotice

		return nil
	}

	cmd, err := catalog.Custom(line)
	if err != nil {
		sh.Phase, sh.Err = PhaseError, domain.FormatErrorMessage(err, false)

		return nil
	}

	sh.Command = cmd

	if cmd.NeedsPrivilege {
		sh.Authorizing = true

		return o.authorizeCmd(ModeShell, sh.epoch)
	}

	return o.startShell()
}

func (o *Orchestrator) applyShellAuthorized(msg authorized) tea.Cmd {
	sh := &o.shell
	if msg.epoch != sh.epoch || !sh.Authorizing {
		return nil
	}

	sh.Authorizing = false

	if msg.err != nil {
		o.logger.Warn("privilege authorization failed", zap.Error(msg.err))
		sh.Phase, sh.Err = PhaseError, "Authorization failed: "+msg.err.Error()

		return nil
	}

	return o.startShell()
}

func (o *Orchestrator) startShell() tea.Cmd {
	sh := &o.shell

	run, job, err := o.startJob(ModeShell, domain.OpCustom, sh.Command)
	if err != nil {
		if errors.Is(err, domain.ErrBusy) {
			sh.Notice = busyNotice

			return nil
		}

		sh.Phase, sh.Err = PhaseError, domain.FormatErrorMessage(err, false)
		sh.Output.Notice(err.Error())

		return nil
	}

	sh.run = run
	sh.Phase = PhaseRunning
	sh.Progress = domain.ProgressInfo{}
	sh.Output.Notice("$ " + strings.Join(sh.Command.Argv, " "))

	return waitOutput(run, job)
}

func (o *Orchestrator) finishShell(msg commandFinished) {
	sh := &o.shell
	if sh.run != msg.run || sh.Phase != PhaseRunning {
		return
	}

	sh.Result = msg.result
	sh.Progress = domain.ProgressInfo{}

	switch {
	case msg.result.Cancelled:
		sh.Phase, sh.Notice = PhaseAwaitingInput, cancelledNotice
	case msg.result.Success:
		sh.Phase = PhaseDone
	default:
		sh.Phase = PhaseError
		sh.Err = fmt.Sprintf("exit status %d", msg.result.ExitCode)
	}
}
