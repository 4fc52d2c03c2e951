package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/xpzouying/unsave-mcp/unsave"
)

type summaryRow struct {
	label string
	value string
}

// writeSummary 输出运行汇总，中英文混排时按显示宽度对齐
func writeSummary(w io.Writer, report *unsave.Report) {
	rows := []summaryRow{
		{"运行 ID", report.RunID},
		{"结束原因", report.Reason},
		{"运行时长", report.Duration.Round(time.Second).String()},
		{"已取消收藏", strconv.Itoa(report.Stats.TotalProcessed)},
		{"已是未收藏", strconv.Itoa(report.Stats.TotalSkipped)},
		{"无法识别", strconv.Itoa(report.Stats.TotalUnknown)},
		{"处理失败", strconv.Itoa(report.Stats.TotalFailed)},
		{"批次数", strconv.Itoa(report.Stats.TotalBatches)},
		{"最后高度", strconv.Itoa(report.Scroll.LastObservedExtent)},
	}
	if report.Error != "" {
		rows = append(rows, summaryRow{"错误", report.Error})
	}

	width := 0
	for _, r := range rows {
		if n := runewidth.StringWidth(r.label); n > width {
			width = n
		}
	}

	for _, r := range rows {
		fmt.Fprintf(w, "%s  %s\n", runewidth.FillRight(r.label, width), r.value)
	}
}
