// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package supervisor

import (
	"errors"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Default escalation timings.
const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultTermAfter    = 5 * time.Second
	DefaultKillAfter    = 1 * time.Second
)

// Signaler delivers signals to a whole process group.
type Signaler interface {
	// Signal sends sig to every member of the group.
	Signal(pgid int, sig syscall.Signal) error
	// Alive reports whether any member of the group still exists.
	Alive(pgid int) bool
}

// GroupSignaler signals real process groups with kill(-pgid, sig).
type GroupSignaler struct {
	// Procs confirms liveness when kill reports members; the zero value
	// reads /proc.
	Procs ProcScanner
}

// Signal implements Signaler.
func (GroupSignaler) Signal(pgid int, sig syscall.Signal) error {
	return unix.Kill(-pgid, sig)
}

// Alive implements Signaler. EPERM means a member exists that we may not
// signal, typically the elevated child, so it counts as alive. kill also
// sees zombies, so a positive answer is checked against /proc.
func (g GroupSignaler) Alive(pgid int) bool {
	err := unix.Kill(-pgid, 0)
	if err != nil && !errors.Is(err, unix.EPERM) {
		return false
	}

	live, scanErr := g.Procs.GroupLive(pgid)
	if scanErr != nil {
		return true
	}

	return live
}

// Outcome summarizes one ladder run.
type Outcome struct {
	Sent []syscall.Signal
	Dead bool
}

// Ladder escalates SIGINT, then SIGTERM, then SIGKILL against a process group
// until it is gone. Zero durations fall back to the defaults.
type Ladder struct {
	Signaler  Signaler
	Poll      time.Duration
	TermAfter time.Duration
	KillAfter time.Duration
	Logger    *zap.Logger

	// Now and Sleep are replaced in tests.
	Now   func() time.Time
	Sleep func(time.Duration)
}

func (l Ladder) withDefaults() Ladder {
	if l.Signaler == nil {
		l.Signaler = GroupSignaler{}
	}

	if l.Poll <= 0 {
		l.Poll = DefaultPollInterval
	}

	if l.TermAfter <= 0 {
		l.TermAfter = DefaultTermAfter
	}

	if l.KillAfter <= 0 {
		l.KillAfter = DefaultKillAfter
	}

	if l.Logger == nil {
		l.Logger = zap.NewNop()
	}

	if l.Now == nil {
		l.Now = time.Now
	}

	if l.Sleep == nil {
		l.Sleep = time.Sleep
	}

	return l
}

// Run interrupts the group and escalates while it stays alive. It returns once
// the group is gone, or after SIGKILL has had KillAfter to take effect.
func (l Ladder) Run(pgid int) Outcome {
	l = l.withDefaults()

	var out Outcome

	send := func(sig syscall.Signal) {
		out.Sent = append(out.Sent, sig)

		if err := l.Signaler.Signal(pgid, sig); err != nil {
			l.Logger.Warn("signal delivery failed", zap.Int("pgid", pgid), zap.Stringer("signal", sig), zap.Error(err))

			return
		}

		l.Logger.Info("signal sent", zap.Int("pgid", pgid), zap.Stringer("signal", sig))
	}

	send(unix.SIGINT)

	stage := unix.SIGINT
	stageAt := l.Now()

	for {
		if !l.Signaler.Alive(pgid) {
			out.Dead = true

			return out
		}

		elapsed := l.Now().Sub(stageAt)

		switch {
		case stage == unix.SIGINT && elapsed >= l.TermAfter:
			send(unix.SIGTERM)

			stage, stageAt = unix.SIGTERM, l.Now()
		case stage == unix.SIGTERM && elapsed >= l.KillAfter:
			send(unix.SIGKILL)

			stage, stageAt = unix.SIGKILL, l.Now()
		case stage == unix.SIGKILL && elapsed >= l.KillAfter:
			l.Logger.Error("process group survived SIGKILL", zap.Int("pgid", pgid))

			return out
		}

		l.Sleep(l.Poll)
	}
}
