// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

// Package debounce delays search lookups until typing pauses and filters out
// results for superseded queries.
package debounce

import (
	"time"

	"github.com/janderssonse/lian/internal/domain"
)

// DefaultQuiet is how long input must settle before a query fires.
const DefaultQuiet = 250 * time.Millisecond

// Debouncer tracks one input surface. It is driven from the UI loop and is
// not safe for concurrent use.
type Debouncer struct {
	quiet    time.Duration
	now      func() time.Time
	text     string
	deadline time.Time
	pending  bool
	seq      uint64
}

// New returns a Debouncer. A zero quiet interval uses DefaultQuiet and a nil
// clock uses time.Now.
func New(quiet time.Duration, now func() time.Time) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}

	if now == nil {
		now = time.Now
	}

	return &Debouncer{quiet: quiet, now: now}
}

// NoteInput records the latest text and pushes the deadline out.
func (d *Debouncer) NoteInput(text string) {
	d.text = text
	d.deadline = d.now().Add(d.quiet)
	d.pending = true
}

// Tick fires the query once the deadline has passed without new input.
func (d *Debouncer) Tick() (domain.SearchQuery, bool) {
	if !d.pending || d.now().Before(d.deadline) {
		return domain.SearchQuery{}, false
	}

	d.pending = false
	d.seq++

	return domain.SearchQuery{Keyword: d.text, Seq: d.seq}, true
}

// Flush fires immediately, skipping the quiet interval.
func (d *Debouncer) Flush() domain.SearchQuery {
	d.pending = false
	d.seq++

	return domain.SearchQuery{Keyword: d.text, Seq: d.seq}
}

// Accept reports whether a result tagged seq belongs to the latest query.
func (d *Debouncer) Accept(seq uint64) bool {
	return seq != 0 && seq == d.seq
}

// Pending reports whether a query is waiting for its deadline.
func (d *Debouncer) Pending() bool {
	return d.pending
}

// Text returns the last recorded input.
func (d *Debouncer) Text() string {
	return d.text
}

// Seq returns the last issued sequence number.
func (d *Debouncer) Seq() uint64 {
	return d.seq
}

// Reset drops pending input and invalidates in-flight results.
func (d *Debouncer) Reset() {
	d.text = ""
	d.pending = false
	d.seq++
}
