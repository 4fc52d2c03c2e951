package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpzouying/unsave-mcp/unsave"
)

func TestWriteSummary(t *testing.T) {
	report := &unsave.Report{
		RunID:    "run-1",
		Reason:   unsave.ReasonFeedExhausted,
		Duration: 90 * time.Second,
		Stats:    unsave.RunStats{TotalProcessed: 42, TotalBatches: 5, TotalSkipped: 2},
		Scroll:   unsave.ScrollState{LastObservedExtent: 8800},
	}

	var buf bytes.Buffer
	writeSummary(&buf, report)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 9)
	assert.Contains(t, buf.String(), "1m30s")
	assert.NotContains(t, buf.String(), "错误")

	// 所有值从同一显示列开始
	col := -1
	for _, line := range lines {
		idx := strings.Index(line, "  ")
		require.NotEqual(t, -1, idx, line)
		label := strings.TrimRight(line[:idx], " ")
		rest := strings.TrimLeft(line[len(label):], " ")
		w := runewidth.StringWidth(line) - runewidth.StringWidth(rest)
		if col == -1 {
			col = w
		}
		assert.Equal(t, col, w, line)
	}
}

func TestWriteSummary_Error(t *testing.T) {
	var buf bytes.Buffer
	writeSummary(&buf, &unsave.Report{Reason: unsave.ReasonAborted, Error: "context canceled"})

	assert.Contains(t, buf.String(), "context canceled")
	assert.Contains(t, buf.String(), unsave.ReasonAborted)
}
