package main

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	mcpServerName    = "unsave-mcp"
	mcpServerVersion = "1.0.0"

	toolCheckLoginStatus = "check_login_status"
	toolUnsaveSaved      = "unsave_saved_posts"
)

// CheckLoginStatusArgs 无参数
type CheckLoginStatusArgs struct{}

// UnsaveSavedPostsArgs 取消收藏参数
type UnsaveSavedPostsArgs struct {
	FeedURL string `json:"feed_url,omitempty" jsonschema:"收藏页地址，默认 https://www.reddit.com/user/me/saved/"`
}

// initMCPServer 创建 MCP 服务器并注册工具
func (s *AppServer) initMCPServer() *mcpsdk.Server {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    mcpServerName,
		Version: mcpServerVersion,
	}, nil)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        toolCheckLoginStatus,
		Description: "检查 Reddit 登录状态",
	}, func(ctx context.Context, _ *mcpsdk.CallToolRequest, _ CheckLoginStatusArgs) (*mcpsdk.CallToolResult, any, error) {
		return convertToMCPResult(s.handleCheckLoginStatus(ctx)), nil, nil
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        toolUnsaveSaved,
		Description: "打开收藏页，逐批取消全部收藏的帖子，直到滚动后不再加载新内容",
	}, func(ctx context.Context, _ *mcpsdk.CallToolRequest, args UnsaveSavedPostsArgs) (*mcpsdk.CallToolResult, any, error) {
		return convertToMCPResult(s.handleUnsaveSavedPosts(ctx, args)), nil, nil
	})

	return server
}

// convertToMCPResult 将内部结果转换为 SDK 结果
func convertToMCPResult(result *MCPToolResult) *mcpsdk.CallToolResult {
	contents := make([]mcpsdk.Content, 0, len(result.Content))
	for _, c := range result.Content {
		if c.Type == "text" {
			contents = append(contents, &mcpsdk.TextContent{Text: c.Text})
		}
	}

	return &mcpsdk.CallToolResult{
		Content: contents,
		IsError: result.IsError,
	}
}
