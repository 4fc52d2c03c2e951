package reddit

import "strings"

// parsePermalink 从帖子链接或 fullname 中解析帖子 ID
// 链接格式: /r/golang/comments/1abcde/some_title/?utm_source=share
// fullname 格式: t3_1abcde
func parsePermalink(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if strings.Contains(s, "/comments/") {
		parts := strings.SplitN(s, "/comments/", 2)
		rest := parts[1]
		if idx := strings.IndexAny(rest, "/?#"); idx >= 0 {
			rest = rest[:idx]
		}
		return rest
	}

	if strings.HasPrefix(s, "t3_") {
		return strings.TrimPrefix(s, "t3_")
	}

	return ""
}
