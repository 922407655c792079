// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package stream

import (
	"bytes"
	"strings"

	"github.com/janderssonse/lian/internal/domain"
)

// Demuxer splits one byte stream into log and progress events.
//
// Bytes are buffered until a delimiter arrives, so a multi-byte character
// split across reads is decoded only once its line is complete. A line ending
// in '\n' (or "\r\n") is a log line; a line ending in a bare '\r' is progress.
// A Demuxer is not safe for concurrent use.
type Demuxer struct {
	source domain.Source
	buf    []byte
}

// NewDemuxer returns a Demuxer tagging its events with src.
func NewDemuxer(src domain.Source) *Demuxer {
	return &Demuxer{source: src}
}

// Feed appends p and returns every event completed by it.
func (d *Demuxer) Feed(p []byte) []domain.OutputEvent {
	d.buf = append(d.buf, p...)

	var events []domain.OutputEvent

	for {
		idx := bytes.IndexAny(d.buf, "\r\n")
		if idx < 0 {
			break
		}

		kind := domain.LogLine
		consumed := idx + 1

		if d.buf[idx] == '\r' {
			if idx+1 == len(d.buf) {
				// Cannot tell "\r" from "\r\n" yet.
				break
			}

			if d.buf[idx+1] == '\n' {
				consumed++
			} else {
				kind = domain.ProgressLine
			}
		}

		if ev, ok := d.event(kind, d.buf[:idx]); ok {
			events = append(events, ev)
		}

		d.buf = d.buf[consumed:]
	}

	// Reclaim the consumed prefix once the buffer drains.
	if len(d.buf) == 0 {
		d.buf = nil
	}

	return events
}

// Flush emits what is left at end of stream. A pending bare '\r' still counts
// as progress; anything else becomes a final log line.
func (d *Demuxer) Flush() []domain.OutputEvent {
	if len(d.buf) == 0 {
		return nil
	}

	rest := d.buf
	d.buf = nil

	if n := len(rest); rest[n-1] == '\r' {
		if ev, ok := d.event(domain.ProgressLine, rest[:n-1]); ok {
			return []domain.OutputEvent{ev}
		}

		return nil
	}

	if ev, ok := d.event(domain.LogLine, rest); ok {
		return []domain.OutputEvent{ev}
	}

	return nil
}

// Pending reports how many bytes are buffered without a delimiter.
func (d *Demuxer) Pending() int {
	return len(d.buf)
}

func (d *Demuxer) event(kind domain.EventKind, raw []byte) (domain.OutputEvent, bool) {
	text := Sanitize(string(raw))
	if strings.TrimSpace(text) == "" {
		return domain.OutputEvent{}, false
	}

	return domain.OutputEvent{Kind: kind, Text: text, Source: d.source}, true
}
