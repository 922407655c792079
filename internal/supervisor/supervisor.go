// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

// Package supervisor runs one external command at a time in its own process
// group, streams its output, and stops it with an escalating signal ladder.
package supervisor

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/janderssonse/lian/internal/domain"
	"github.com/janderssonse/lian/internal/stream"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const (
	// PGIDWait bounds how long Cancel waits for the process-group id.
	PGIDWait = 500 * time.Millisecond

	pgidRetry   = 10 * time.Millisecond
	readSize    = 4096
	eventBuffer = 256
	elevator    = "sudo"
)

// Handle identifies one running child. It is created by Spawn and finished
// once Wait returns.
type Handle struct {
	ID         uuid.UUID
	Operation  domain.Operation
	Argv       []string
	Privileged bool
	StartedAt  time.Time

	pgid      atomic.Int64
	cancelled atomic.Bool

	mu     sync.Mutex
	reaped bool

	cmd       *exec.Cmd
	events    chan domain.OutputEvent
	cancelCh  chan struct{}
	ladderEnd chan struct{}
	done      chan struct{}

	stdout strings.Builder
	stderr strings.Builder
	result domain.CommandResult
}

// PGID returns the process-group id, or zero while it is still unknown.
func (h *Handle) PGID() int {
	return int(h.pgid.Load())
}

// Cancelled reports whether cancellation was requested.
func (h *Handle) Cancelled() bool {
	return h.cancelled.Load()
}

// Done is closed when the child has been reaped and the result is final.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Supervisor owns at most one live Handle.
type Supervisor struct {
	logger *zap.Logger
	ladder Ladder
	lock   *LockGuard
	env    []string

	mu     sync.Mutex
	active *Handle
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Supervisor) { s.logger = l }
}

// WithLadder overrides the cancellation ladder.
func WithLadder(l Ladder) Option {
	return func(s *Supervisor) { s.ladder = l }
}

// WithLockGuard enables stale-lock cleanup after a cancelled run.
func WithLockGuard(g *LockGuard) Option {
	return func(s *Supervisor) { s.lock = g }
}

// WithEnv appends environment entries for every child.
func WithEnv(env ...string) Option {
	return func(s *Supervisor) { s.env = append(s.env, env...) }
}

// New creates a Supervisor.
func New(opts ...Option) *Supervisor {
	s := &Supervisor{logger: zap.NewNop()}

	for _, opt := range opts {
		opt(s)
	}

	if s.ladder.Logger == nil {
		s.ladder.Logger = s.logger
	}

	return s
}

// Active returns the outstanding handle, if any.
func (s *Supervisor) Active() *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.active
}

// Spawn starts argv in a new process group. When needsPrivilege is set the
// argv runs through non-interactive sudo; credentials must already be cached.
// It fails with domain.ErrBusy while another handle is outstanding.
func (s *Supervisor) Spawn(op domain.Operation, argv []string, needsPrivilege bool) (*Handle, error) {
	if len(argv) == 0 {
		return nil, &domain.SpawnError{Err: domain.ErrEmptyCommand}
	}

	if needsPrivilege {
		argv = elevate(argv)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return nil, domain.ErrBusy
	}

	// #nosec G204 - argv is built by the command catalog or typed by the user
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = groupAttr()
	cmd.Env = append(os.Environ(), s.env...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &domain.SpawnError{Argv: argv, Err: err}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &domain.SpawnError{Argv: argv, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return nil, &domain.SpawnError{Argv: argv, Err: err}
	}

	h := &Handle{
		ID:         uuid.New(),
		Operation:  op,
		Argv:       argv,
		Privileged: needsPrivilege,
		StartedAt:  time.Now(),
		cmd:        cmd,
		events:     make(chan domain.OutputEvent, eventBuffer),
		cancelCh:   make(chan struct{}),
		ladderEnd:  make(chan struct{}),
		done:       make(chan struct{}),
	}

	h.pgid.Store(int64(capturePGID(cmd.Process.Pid)))
	s.active = h

	s.logger.Info("command started",
		zap.Stringer("handle", h.ID),
		zap.Stringer("operation", op),
		zap.Strings("argv", argv),
		zap.Int("pgid", h.PGID()))

	var readers sync.WaitGroup

	readers.Add(2)

	go s.pump(h, stdout, domain.Stdout, &h.stdout, &readers)
	go s.pump(h, stderr, domain.Stderr, &h.stderr, &readers)
	go s.monitor(h, &readers)

	return h, nil
}

// Stream returns the handle's events. The channel is closed after both
// output streams reach EOF. Callers must drain it until then or cancel.
func (s *Supervisor) Stream(h *Handle) <-chan domain.OutputEvent {
	return h.events
}

// Cancel interrupts the child's process group and escalates in the
// background. Calling it again, or after the child was reaped, does nothing.
func (s *Supervisor) Cancel(h *Handle) {
	h.mu.Lock()
	if h.reaped || !h.cancelled.CompareAndSwap(false, true) {
		h.mu.Unlock()

		return
	}
	close(h.cancelCh)
	h.mu.Unlock()

	s.logger.Info("cancellation requested", zap.Stringer("handle", h.ID))

	go func() {
		defer close(h.ladderEnd)

		pgid := waitPGID(h, PGIDWait)
		if pgid == 0 {
			s.logger.Warn("process group id unavailable, signal skipped", zap.Stringer("handle", h.ID))

			return
		}

		out := s.ladder.Run(pgid)
		s.logger.Info("cancellation ladder finished",
			zap.Stringer("handle", h.ID),
			zap.Bool("dead", out.Dead),
			zap.Int("signals", len(out.Sent)))
	}()
}

// Wait blocks until the child exits, or is killed by the ladder, and returns
// its result.
func (s *Supervisor) Wait(h *Handle) domain.CommandResult {
	<-h.done

	return h.result
}

// CleanupAll stops the outstanding child, if any, and blocks until it is
// reaped. It is meant for application shutdown.
func (s *Supervisor) CleanupAll() {
	h := s.Active()
	if h == nil {
		return
	}

	s.logger.Info("stopping outstanding command on shutdown", zap.Stringer("handle", h.ID))
	s.Cancel(h)
	s.Wait(h)
}

func (s *Supervisor) pump(h *Handle, r io.Reader, src domain.Source, acc *strings.Builder, wg *sync.WaitGroup) {
	defer wg.Done()

	demux := stream.NewDemuxer(src)
	buf := make([]byte, readSize)

	for {
		n, err := r.Read(buf)
		if n > 0 && !h.cancelled.Load() {
			deliver(h, demux.Feed(buf[:n]), acc)
		}

		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				s.logger.Warn("output stream read failed",
					zap.Stringer("handle", h.ID),
					zap.Stringer("source", src),
					zap.Error(err))
			}

			break
		}
	}

	if !h.cancelled.Load() {
		deliver(h, demux.Flush(), acc)
	}
}

// deliver forwards events and records log lines. After cancellation nothing
// more is forwarded but the pipe is still drained so the child never blocks
// on a full pipe.
func deliver(h *Handle, events []domain.OutputEvent, acc *strings.Builder) {
	for _, ev := range events {
		if ev.Kind == domain.LogLine {
			acc.WriteString(ev.Text)
			acc.WriteByte('\n')
		}

		select {
		case h.events <- ev:
		case <-h.cancelCh:
			return
		}
	}
}

func (s *Supervisor) monitor(h *Handle, readers *sync.WaitGroup) {
	readers.Wait()
	close(h.events)

	waitErr := h.cmd.Wait()

	h.mu.Lock()
	h.reaped = true
	cancelled := h.cancelled.Load()
	h.mu.Unlock()

	result := domain.CommandResult{
		Stdout:   h.stdout.String(),
		Stderr:   h.stderr.String(),
		Success:  waitErr == nil,
		ExitCode: h.cmd.ProcessState.ExitCode(),
		Duration: time.Since(h.StartedAt),
	}

	if cancelled {
		<-h.ladderEnd

		result.Success = false
		result.Cancelled = true
		result.Stderr = domain.CancelledMessage

		s.cleanupLock()
	}

	h.result = result

	s.logger.Info("command finished",
		zap.Stringer("handle", h.ID),
		zap.Bool("success", result.Success),
		zap.Bool("cancelled", result.Cancelled),
		zap.Int("exit_code", result.ExitCode),
		zap.Duration("duration", result.Duration))

	s.mu.Lock()
	if s.active == h {
		s.active = nil
	}
	s.mu.Unlock()

	close(h.done)
}

func (s *Supervisor) cleanupLock() {
	if s.lock == nil {
		return
	}

	removed, err := s.lock.Cleanup(context.Background())
	if err != nil {
		s.logger.Warn("lock cleanup skipped", zap.Error(err))

		return
	}

	if removed {
		s.logger.Info("stale lock removed after cancellation", zap.String("path", s.lock.Path))
	}
}

// capturePGID reads the group id of a freshly started child. With Setpgid the
// child leads its own group, so the pid is the fallback.
func capturePGID(pid int) int {
	pgid, err := unix.Getpgid(pid)
	if err != nil {
		return pid
	}

	return pgid
}

// waitPGID polls for the group id for up to limit.
func waitPGID(h *Handle, limit time.Duration) int {
	deadline := time.Now().Add(limit)

	for {
		if pgid := h.PGID(); pgid != 0 {
			return pgid
		}

		if time.Now().After(deadline) {
			return 0
		}

		time.Sleep(pgidRetry)
	}
}

// elevate makes sure argv runs under non-interactive sudo.
func elevate(argv []string) []string {
	if argv[0] != elevator {
		return append([]string{elevator, "-n"}, argv...)
	}

	if len(argv) > 1 && argv[1] == "-n" {
		return argv
	}

	out := make([]string, 0, len(argv)+1)
	out = append(out, elevator, "-n")

	return append(out, argv[1:]...)
}
