// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package orchestrator

import "github.com/janderssonse/lian/internal/domain"

// MaxLines caps every display buffer; the oldest lines go first.
const MaxLines = 5000

// StderrPrefix marks lines that came from stderr.
const StderrPrefix = "⚠ "

// LineKind tells the renderer how to draw a line.
type LineKind int

// Line kinds.
const (
	LineLog LineKind = iota
	LineStderr
	LineProgress
	LineNotice
)

// Line is one row of command output.
type Line struct {
	Text string
	Kind LineKind
}

// String returns the display text, stderr lines prefixed.
func (l Line) String() string {
	if l.Kind == LineStderr {
		return StderrPrefix + l.Text
	}

	return l.Text
}

// Buffer holds the output shown for a mode. The newest progress line is
// overwritten in place; everything else appends. Scrolling follows the tail
// until the user scrolls up.
type Buffer struct {
	lines  []Line
	max    int
	offset int
	follow bool
}

// NewBuffer creates a buffer holding at most limit lines.
func NewBuffer(limit int) *Buffer {
	if limit <= 0 {
		limit = MaxLines
	}

	return &Buffer{max: limit, follow: true}
}

// Push adds an output event.
func (b *Buffer) Push(ev domain.OutputEvent) {
	if ev.IsProgress() {
		line := Line{Text: ev.Text, Kind: LineProgress}
		if n := len(b.lines); n > 0 && b.lines[n-1].Kind == LineProgress {
			b.lines[n-1] = line

			return
		}

		b.append(line)

		return
	}

	kind := LineLog
	if ev.Source == domain.Stderr {
		kind = LineStderr
	}

	b.append(Line{Text: ev.Text, Kind: kind})
}

// Notice appends a line written by lian itself.
func (b *Buffer) Notice(text string) {
	b.append(Line{Text: text, Kind: LineNotice})
}

func (b *Buffer) append(l Line) {
	b.lines = append(b.lines, l)

	if over := len(b.lines) - b.max; over > 0 {
		b.lines = append(b.lines[:0:0], b.lines[over:]...)
		b.offset = max(b.offset-over, 0)
	}
}

// Clear empties the buffer and resumes following the tail.
func (b *Buffer) Clear() {
	b.lines = nil
	b.offset = 0
	b.follow = true
}

// Len returns the number of lines.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Lines returns every line, oldest first.
func (b *Buffer) Lines() []Line {
	return b.lines
}

// Strings returns the display text of every line.
func (b *Buffer) Strings() []string {
	out := make([]string, len(b.lines))
	for i, l := range b.lines {
		out[i] = l.String()
	}

	return out
}

// Following reports whether the view sticks to the newest line.
func (b *Buffer) Following() bool {
	return b.follow
}

// Offset returns the first visible line for a window of height rows.
func (b *Buffer) Offset(height int) int {
	maxOffset := max(len(b.lines)-height, 0)
	if b.follow {
		return maxOffset
	}

	return min(b.offset, maxOffset)
}

// Window returns the visible lines for a window of height rows.
func (b *Buffer) Window(height int) []Line {
	if height <= 0 {
		return nil
	}

	start := b.Offset(height)

	return b.lines[start:min(start+height, len(b.lines))]
}

// Scroll moves the view by delta lines for a window of height rows. Reaching
// the bottom resumes following.
func (b *Buffer) Scroll(delta, height int) {
	maxOffset := max(len(b.lines)-height, 0)
	b.offset = min(max(b.Offset(height)+delta, 0), maxOffset)
	b.follow = b.offset >= maxOffset
}
