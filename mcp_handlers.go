package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/xpzouying/unsave-mcp/reddit"
	"github.com/xpzouying/unsave-mcp/unsave"
)

// MCP 工具处理函数

func textResult(text string, isError bool) *MCPToolResult {
	return &MCPToolResult{
		Content: []MCPContent{{
			Type: "text",
			Text: text,
		}},
		IsError: isError,
	}
}

// handleCheckLoginStatus 处理检查登录状态
func (s *AppServer) handleCheckLoginStatus(ctx context.Context) *MCPToolResult {
	logrus.Info("MCP: 检查登录状态")

	status, err := s.service.CheckLoginStatus(ctx)
	if err != nil {
		return textResult("检查登录状态失败: "+err.Error(), true)
	}

	if !status.IsLoggedIn {
		return textResult("❌ 未登录，请先以 -headless=false 运行 cmd/unsave 完成登录", false)
	}
	return textResult("✅ 已登录", false)
}

// handleUnsaveSavedPosts 处理取消全部收藏
func (s *AppServer) handleUnsaveSavedPosts(ctx context.Context, args UnsaveSavedPostsArgs) *MCPToolResult {
	logrus.Info("MCP: 开始取消全部收藏")

	if err := reddit.ValidateFeedURL(args.FeedURL); err != nil {
		return textResult("取消收藏失败: "+err.Error(), true)
	}

	report, err := s.service.RunUnsave(ctx, &UnsaveRequest{FeedURL: args.FeedURL})
	if errors.Is(err, reddit.ErrNotLoggedIn) {
		return textResult("取消收藏失败: 未登录，请先登录 Reddit", true)
	}
	if report == nil {
		if err == nil {
			err = errors.New("no report")
		}
		return textResult("取消收藏失败: "+err.Error(), true)
	}

	return textResult(formatReport(report), err != nil)
}

// formatReport 格式化运行报告
func formatReport(report *unsave.Report) string {
	title := "取消收藏完成！"
	if !report.Completed {
		title = "取消收藏中途停止，已处理的帖子不会恢复。"
	}

	text := fmt.Sprintf(`%s

📊 统计信息:
- 结束原因: %s
- 运行时长: %v
- 已取消收藏: %d 个
- 已是未收藏: %d 个
- 无法识别: %d 个
- 处理失败: %d 个
- 批次数: %d
- 运行 ID: %s`,
		title,
		report.Reason,
		report.Duration.Round(time.Second),
		report.Stats.TotalProcessed,
		report.Stats.TotalSkipped,
		report.Stats.TotalUnknown,
		report.Stats.TotalFailed,
		report.Stats.TotalBatches,
		report.RunID,
	)

	if report.Error != "" {
		text += "\n- 错误: " + report.Error
	}
	return text
}
