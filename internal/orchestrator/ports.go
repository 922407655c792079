// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package orchestrator

import (
	"os"
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/lian/internal/config"
	"github.com/janderssonse/lian/internal/domain"
	"github.com/janderssonse/lian/internal/supervisor"
)

// Job is one spawned command.
type Job interface {
	// Events streams output until both of the child's streams end.
	Events() <-chan domain.OutputEvent
	// Wait blocks until the child is reaped.
	Wait() domain.CommandResult
	// Cancel starts the signal ladder. Repeated calls do nothing.
	Cancel()
}

// Executor starts commands. It refuses a second command while one runs.
type Executor interface {
	Start(op domain.Operation, argv []string, needsPrivilege bool) (Job, error)
}

// ConfigStore persists settings. It returns the configuration as written.
type ConfigStore interface {
	Save(cfg config.Config) (config.Config, error)
}

// Authorizer makes sure elevated credentials are cached before a privileged
// command starts. The returned command eventually produces done(err).
type Authorizer interface {
	Authorize(done func(error) tea.Msg) tea.Cmd
}

// SupervisorExecutor runs jobs through a supervisor.Supervisor.
type SupervisorExecutor struct {
	sup *supervisor.Supervisor
}

var _ Executor = (*SupervisorExecutor)(nil)

// NewSupervisorExecutor wraps sup.
func NewSupervisorExecutor(sup *supervisor.Supervisor) *SupervisorExecutor {
	return &SupervisorExecutor{sup: sup}
}

// Start implements Executor.
func (e *SupervisorExecutor) Start(op domain.Operation, argv []string, needsPrivilege bool) (Job, error) {
	h, err := e.sup.Spawn(op, argv, needsPrivilege)
	if err != nil {
		return nil, err
	}

	return &supervisedJob{sup: e.sup, handle: h}, nil
}

type supervisedJob struct {
	sup    *supervisor.Supervisor
	handle *supervisor.Handle
}

func (j *supervisedJob) Events() <-chan domain.OutputEvent { return j.sup.Stream(j.handle) }
func (j *supervisedJob) Wait() domain.CommandResult       { return j.sup.Wait(j.handle) }
func (j *supervisedJob) Cancel()                          { j.sup.Cancel(j.handle) }

// SudoAuthorizer validates sudo credentials, prompting on the terminal only
// when nothing is cached.
type SudoAuthorizer struct{}

var _ Authorizer = SudoAuthorizer{}

// Authorize implements Authorizer.
func (SudoAuthorizer) Authorize(done func(error) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		if os.Geteuid() == 0 {
			return done(nil)
		}

		if err := exec.Command("sudo", "-n", "-v").Run(); err == nil {
			return done(nil)
		}

		return execRequest{cmd: tea.ExecProcess(exec.Command("sudo", "-v"), func(err error) tea.Msg {
			return done(err)
		})}
	}
}
