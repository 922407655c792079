// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import "time"

// Source tags which child stream a line came from.
type Source int

// Stream sources.
const (
	Stdout Source = iota
	Stderr
)

func (s Source) String() string {
	if s == Stderr {
		return "stderr"
	}

	return "stdout"
}

// EventKind distinguishes log lines from in-place progress updates.
type EventKind int

// Output event kinds.
const (
	LogLine EventKind = iota
	ProgressLine
)

// OutputEvent is one discrete unit of child output.
type OutputEvent struct {
	Kind   EventKind
	Text   string
	Source Source
}

// NewLogLine builds a log line event.
func NewLogLine(text string, src Source) OutputEvent {
	return OutputEvent{Kind: LogLine, Text: text, Source: src}
}

// NewProgressLine builds a progress event.
func NewProgressLine(text string, src Source) OutputEvent {
	return OutputEvent{Kind: ProgressLine, Text: text, Source: src}
}

// IsProgress reports whether the event overwrites the previous progress line.
func (e OutputEvent) IsProgress() bool {
	return e.Kind == ProgressLine
}

// CancelledMessage replaces stderr when a run was cancelled by the user.
const CancelledMessage = "operation cancelled"

// CommandResult is the outcome of one supervised run.
type CommandResult struct {
	Stdout    string
	Stderr    string
	Success   bool
	Cancelled bool
	ExitCode  int
	Duration  time.Duration
}

// ProgressInfo is the structured view of a progress line. Every field is optional.
type ProgressInfo struct {
	Label string
	Size  string
	Speed string
	ETA   string
}

// IsZero reports whether nothing was extracted.
func (p ProgressInfo) IsZero() bool {
	return p == ProgressInfo{}
}

// SearchQuery is a debounced lookup request.
type SearchQuery struct {
	Keyword string
	Seq     uint64
}
