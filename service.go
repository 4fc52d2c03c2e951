package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/xpzouying/unsave-mcp/browser"
	"github.com/xpzouying/unsave-mcp/configs"
	"github.com/xpzouying/unsave-mcp/cookies"
	"github.com/xpzouying/unsave-mcp/metrics"
	"github.com/xpzouying/unsave-mcp/reddit"
	"github.com/xpzouying/unsave-mcp/session"
	"github.com/xpzouying/unsave-mcp/unsave"
)

// Unsaver HTTP 和 MCP 两种接入方式共用的业务接口
type Unsaver interface {
	CheckLoginStatus(ctx context.Context) (*LoginStatusResponse, error)
	RunUnsave(ctx context.Context, req *UnsaveRequest) (*unsave.Report, error)
}

// UnsaveService 通过全局浏览器管理器执行任务，同一时间只有一个任务占用浏览器
type UnsaveService struct {
	settings      configs.Settings
	recorder      *metrics.Recorder
	screenshotDir string
}

func NewUnsaveService(settings configs.Settings, recorder *metrics.Recorder, screenshotDir string) *UnsaveService {
	return &UnsaveService{
		settings:      settings,
		recorder:      recorder,
		screenshotDir: screenshotDir,
	}
}

// CheckLoginStatus 检查登录状态
func (s *UnsaveService) CheckLoginStatus(ctx context.Context) (*LoginStatusResponse, error) {
	page, release := browser.GetGlobalManager().NewPageWithRelease()
	defer release()

	isLoggedIn, err := reddit.NewLogin(page).CheckLoginStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &LoginStatusResponse{IsLoggedIn: isLoggedIn}, nil
}

// RunUnsave 打开收藏页并取消全部收藏，直到没有更多帖子或中途出错
func (s *UnsaveService) RunUnsave(ctx context.Context, req *UnsaveRequest) (*unsave.Report, error) {
	if req != nil {
		if err := reddit.ValidateFeedURL(req.FeedURL); err != nil {
			return nil, err
		}
	}

	manager := browser.GetGlobalManager()
	page, release := manager.NewPageWithRelease()
	defer release()

	settings := s.settings
	if req != nil && req.FeedURL != "" {
		settings.FeedURL = req.FeedURL
	}

	opts := session.Options{
		Settings:      settings,
		ScreenshotDir: s.screenshotDir,
	}
	if s.recorder != nil {
		opts.Observer = s.recorder
	}

	report, err := session.Sweep(ctx, page, opts)

	cookiePath := manager.CookiePath()
	if cookiePath == "" {
		cookiePath = cookies.GetCookiesFilePath()
	}
	if saveErr := session.SavePageCookiesToPath(page, cookiePath); saveErr != nil {
		logrus.WithError(saveErr).Warn("保存 cookies 失败")
	}

	return report, err
}
