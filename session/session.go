// Package session 把浏览器页面、登录状态和滚动驱动器组合成一次完整的取消收藏任务
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-rod/rod"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/xpzouying/unsave-mcp/browser"
	"github.com/xpzouying/unsave-mcp/configs"
	"github.com/xpzouying/unsave-mcp/cookies"
	"github.com/xpzouying/unsave-mcp/reddit"
	"github.com/xpzouying/unsave-mcp/unsave"
)

// DefaultLoginTimeout 有界面模式下等待手动登录的时间
const DefaultLoginTimeout = 3 * time.Minute

// RunObserver 除了过程指标外还关心整次运行的结果
type RunObserver interface {
	unsave.Observer
	ObserveRun(report *unsave.Report)
}

type Options struct {
	Settings configs.Settings
	Observer unsave.Observer
	// ScreenshotDir 非空时，异常停止会保存一张截图
	ScreenshotDir string
}

// Sweep 在已打开的页面上执行一次取消收藏。
// 未登录时返回 reddit.ErrNotLoggedIn；运行中途出错时 report 仍然非空。
func Sweep(ctx context.Context, page *rod.Page, opts Options) (*unsave.Report, error) {
	loggedIn, err := reddit.NewLogin(page).CheckLoginStatus(ctx)
	if err != nil {
		return nil, abortBeforeRun(opts.Observer, errors.Wrap(err, "check login status"))
	}
	if !loggedIn {
		return nil, abortBeforeRun(opts.Observer, reddit.ErrNotLoggedIn)
	}

	if err := reddit.OpenSaved(ctx, page, opts.Settings.FeedURL); err != nil {
		return nil, abortBeforeRun(opts.Observer, err)
	}

	policy := opts.Settings.Policy
	feed := reddit.NewFeed(page, policy.SavedLabel)
	driver, err := unsave.NewDriver(feed, policy, unsave.WithObserver(opts.Observer))
	if err != nil {
		return nil, abortBeforeRun(opts.Observer, err)
	}

	report, runErr := driver.Run(ctx)
	if runErr != nil && opts.ScreenshotDir != "" {
		if path, err := browser.SaveScreenshot(page, opts.ScreenshotDir, "abort-"+report.RunID); err != nil {
			logrus.Warnf("保存异常截图失败: %v", err)
		} else {
			logrus.WithField("path", path).Info("已保存异常截图")
		}
	}
	observeRun(opts.Observer, report)

	return report, runErr
}

func observeRun(o unsave.Observer, report *unsave.Report) {
	if ro, ok := o.(RunObserver); ok {
		ro.ObserveRun(report)
	}
}

// abortBeforeRun 驱动器启动前失败也记一次中途停止
func abortBeforeRun(o unsave.Observer, err error) error {
	now := time.Now()
	observeRun(o, &unsave.Report{
		StartedAt:  now,
		FinishedAt: now,
		Reason:     unsave.ReasonAborted,
		Error:      err.Error(),
	})
	return err
}

// StandaloneOptions 命令行单独运行时的配置。
// 无头模式和浏览器路径读取 configs 中的进程级配置。
type StandaloneOptions struct {
	Options
	CookiePath   string
	LoginTimeout time.Duration
}

// RunStandalone 启动独立浏览器完成一次取消收藏。
// 未登录且有界面时打开登录页等待手动登录，登录成功和运行结束后都会保存 cookies。
func RunStandalone(ctx context.Context, opts StandaloneOptions) (*unsave.Report, error) {
	cookiePath := opts.CookiePath
	if cookiePath == "" {
		cookiePath = cookies.GetCookiesFilePath()
	}

	headless, binPath := browserSettings()
	b := browser.NewBrowser(headless,
		browser.WithBinPath(binPath),
		browser.WithCookiesPath(cookiePath),
	)
	defer b.Close()

	page := b.NewPage()
	defer page.Close()
	browser.ConfigurePage(page)

	if err := ensureLogin(ctx, page, headless, opts.LoginTimeout, cookiePath); err != nil {
		return nil, abortBeforeRun(opts.Observer, err)
	}

	report, err := Sweep(ctx, page, opts.Options)

	// 运行结束后再次保存 cookies，保证会话持久化
	if saveErr := SavePageCookiesToPath(page, cookiePath); saveErr != nil {
		logrus.WithError(saveErr).Warn("保存 cookies 失败")
	}

	return report, err
}

// browserSettings 读取进程级浏览器配置
func browserSettings() (headless bool, binPath string) {
	return configs.IsHeadless(), configs.GetBinPath()
}

func ensureLogin(ctx context.Context, page *rod.Page, headless bool, timeout time.Duration, cookiePath string) error {
	login := reddit.NewLogin(page)

	loggedIn, err := login.CheckLoginStatus(ctx)
	if err == nil && loggedIn {
		logrus.Info("检测到已登录，直接开始取消收藏")
		return nil
	}

	if headless {
		return errors.Wrap(reddit.ErrNotLoggedIn, "无头模式下无法手动登录，请先以 -headless=false 运行一次")
	}

	if err := reddit.OpenLogin(ctx, page); err != nil {
		return err
	}

	if timeout <= 0 {
		timeout = DefaultLoginTimeout
	}
	loginCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logrus.Infof("未登录，请在浏览器窗口中登录 Reddit（等待 %v）", timeout)
	if ok := login.WaitForLogin(loginCtx); !ok {
		return errors.Wrap(reddit.ErrNotLoggedIn, "登录等待超时或被取消")
	}

	logrus.Info("登录成功")
	if err := SavePageCookiesToPath(page, cookiePath); err != nil {
		logrus.WithError(err).Warn("保存 cookies 失败")
	}
	return nil
}

// SavePageCookiesToPath 将当前页面的 cookies 保存到指定文件路径
func SavePageCookiesToPath(page *rod.Page, cookiePath string) error {
	cks, err := page.Browser().GetCookies()
	if err != nil {
		return errors.Wrap(err, "get browser cookies")
	}

	data, err := json.Marshal(cks)
	if err != nil {
		return errors.Wrap(err, "marshal cookies")
	}

	return cookies.NewLoadCookie(cookiePath).SaveCookies(data)
}
