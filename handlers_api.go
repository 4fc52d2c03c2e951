package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/xpzouying/unsave-mcp/reddit"
)

// respondError 返回错误响应
func respondError(c *gin.Context, statusCode int, code, message string, details any) {
	logrus.Errorf("%s %s %d", c.Request.Method, c.Request.URL.Path, statusCode)

	c.JSON(statusCode, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// respondSuccess 返回成功响应
func respondSuccess(c *gin.Context, data any, message string) {
	logrus.Infof("%s %s %d", c.Request.Method, c.Request.URL.Path, http.StatusOK)

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func healthHandler(c *gin.Context) {
	respondSuccess(c, map[string]any{
		"status":  "healthy",
		"service": "unsave-mcp",
	}, "服务正常")
}

// checkLoginStatusHandler 检查登录状态
func (s *AppServer) checkLoginStatusHandler(c *gin.Context) {
	status, err := s.service.CheckLoginStatus(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "STATUS_CHECK_FAILED",
			"检查登录状态失败", err.Error())
		return
	}

	respondSuccess(c, status, "检查登录状态成功")
}

// runUnsaveHandler 取消全部收藏，请求体可省略
func (s *AppServer) runUnsaveHandler(c *gin.Context) {
	var req UnsaveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST",
				"请求参数错误", err.Error())
			return
		}
	}

	if err := reddit.ValidateFeedURL(req.FeedURL); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_FEED_URL",
			"收藏页地址必须是 https://www.reddit.com/ 下的页面", err.Error())
		return
	}

	report, err := s.service.RunUnsave(c.Request.Context(), &req)
	switch {
	case errors.Is(err, reddit.ErrInvalidFeedURL):
		respondError(c, http.StatusBadRequest, "INVALID_FEED_URL",
			"收藏页地址必须是 https://www.reddit.com/ 下的页面", err.Error())
		return
	case errors.Is(err, reddit.ErrNotLoggedIn):
		respondError(c, http.StatusUnauthorized, "NOT_LOGGED_IN",
			"未登录，请先登录 Reddit", err.Error())
		return
	case err != nil && report == nil:
		respondError(c, http.StatusInternalServerError, "UNSAVE_FAILED",
			"取消收藏失败", err.Error())
		return
	case err != nil:
		// 中途停止，已处理的帖子不会回滚，统计一并返回
		respondError(c, http.StatusInternalServerError, "UNSAVE_ABORTED",
			"取消收藏中途停止", report)
		return
	}

	respondSuccess(c, report, report.Reason)
}
