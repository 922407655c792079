// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package stream_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/janderssonse/lian/internal/domain"
	"github.com/janderssonse/lian/internal/stream"
	"github.com/stretchr/testify/assert"
)

func feedAll(src domain.Source, input []byte, chunk int) []domain.OutputEvent {
	d := stream.NewDemuxer(src)

	var events []domain.OutputEvent

	for start := 0; start < len(input); start += chunk {
		end := min(start+chunk, len(input))
		events = append(events, d.Feed(input[start:end])...)
	}

	return append(events, d.Flush()...)
}

func TestDemuxer_Events(t *testing.T) {
	t.Parallel()

	input := []byte(":: Synchronizing\n core 10%\r core 100%\r\n\n\x1b[1mdone\x1b[0m\r\ntrailing")

	got := feedAll(domain.Stdout, input, len(input))
	want := []domain.OutputEvent{
		domain.NewLogLine(":: Synchronizing", domain.Stdout),
		domain.NewProgressLine(" core 10%", domain.Stdout),
		domain.NewLogLine(" core 100%", domain.Stdout),
		domain.NewLogLine("done", domain.Stdout),
		domain.NewLogLine("trailing", domain.Stdout),
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestDemuxer_ChunkingIsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := map[string][]byte{
		"mixed delimiters": []byte("alpha\nbeta\r gamma\r\ndelta\r\repsilon"),
		"multi-byte":       []byte("正在下载 ✓\r已完成 50%\r完成\n错误：冲突\n"),
		"escapes":          []byte("\x1b[32mok\x1b[0m\n\x1b[2K\r 3/5 pkg\r"),
		"blank lines":      []byte("\n\n\r\r\nx\n\n"),
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			whole := feedAll(domain.Stderr, input, len(input))

			for _, chunk := range []int{1, 2, 3, 5, 7} {
				if diff := cmp.Diff(whole, feedAll(domain.Stderr, input, chunk)); diff != "" {
					t.Errorf("chunk size %d differs (-whole +chunked):\n%s", chunk, diff)
				}
			}
		})
	}
}

func TestDemuxer_SplitRuneIsBuffered(t *testing.T) {
	t.Parallel()

	d := stream.NewDemuxer(domain.Stdout)
	word := []byte("升级\n")

	assert.Empty(t, d.Feed(word[:1]))
	assert.Equal(t, 1, d.Pending())
	assert.Empty(t, d.Feed(word[1:4]))

	events := d.Feed(word[4:])
	assert.Equal(t, []domain.OutputEvent{domain.NewLogLine("升级", domain.Stdout)}, events)
	assert.Zero(t, d.Pending())
}

func TestDemuxer_TrailingCarriageReturnWaits(t *testing.T) {
	t.Parallel()

	d := stream.NewDemuxer(domain.Stdout)

	assert.Empty(t, d.Feed([]byte("50%\r")))
	assert.Equal(t, []domain.OutputEvent{domain.NewProgressLine("50%", domain.Stdout)}, d.Feed([]byte("x")))
	assert.Equal(t, []domain.OutputEvent{domain.NewLogLine("x", domain.Stdout)}, d.Flush())
	assert.Nil(t, d.Flush())
}

func TestDemuxer_FlushPendingProgress(t *testing.T) {
	t.Parallel()

	d := stream.NewDemuxer(domain.Stdout)
	assert.Empty(t, d.Feed([]byte("90%\r")))
	assert.Equal(t, []domain.OutputEvent{domain.NewProgressLine("90%", domain.Stdout)}, d.Flush())
}
