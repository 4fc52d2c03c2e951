package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/xpzouying/unsave-mcp/configs"
	"github.com/xpzouying/unsave-mcp/cookies"
	"github.com/xpzouying/unsave-mcp/reddit"
	"github.com/xpzouying/unsave-mcp/session"
)

// 这个 CLI 程序用于直接从命令行取消全部收藏，
// 复用服务层的运行逻辑，而不依赖 MCP 客户端。
func main() {
	var (
		headless      bool
		binPath       string
		policyPath    string
		screenshotDir string
		resetCookies  bool
		loginTimeout  time.Duration
	)

	flag.BoolVar(&headless, "headless", false, "是否无头模式，默认 false（有界面，便于首次手动登录）")
	flag.StringVar(&binPath, "bin", "", "浏览器二进制文件路径（可选，不传则使用 ROD_BROWSER_BIN 环境变量）")
	flag.StringVar(&policyPath, "policy", "", "策略文件路径（YAML，可选，不传则使用 UNSAVE_POLICY 环境变量）")
	flag.StringVar(&screenshotDir, "screenshot-dir", "", "异常停止时保存截图的目录（可选）")
	flag.BoolVar(&resetCookies, "reset-cookies", false, "启动前清理 cookies 文件并重新登录")
	flag.DurationVar(&loginTimeout, "login-timeout", session.DefaultLoginTimeout, "有界面模式下等待手动登录的时间")

	flag.Parse()

	configs.LoadEnv()
	configs.SetupLogging()

	cookiePath := cookies.GetCookiesFilePath()
	if resetCookies {
		if err := cookies.NewLoadCookie(cookiePath).DeleteCookies(); err != nil {
			logrus.Fatalf("failed to reset cookies: %v", err)
		}
		logrus.Info("cookies 已清理，将重新登录")
	}

	if headless {
		logrus.Warn("当前以无头模式运行，未登录时无法手动登录，建议第一次使用时 headless=false")
	}

	binPath = configs.ResolveBinPath(binPath)
	configs.InitHeadless(headless)
	configs.SetBinPath(binPath)

	settings, err := configs.LoadSettings(configs.ResolvePolicyPath(policyPath))
	if err != nil {
		logrus.Fatalf("failed to load policy: %v", err)
	}

	// Ctrl+C 视为中途停止，已处理的帖子不会恢复
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := session.RunStandalone(ctx, session.StandaloneOptions{
		Options: session.Options{
			Settings:      settings,
			ScreenshotDir: screenshotDir,
		},
		CookiePath:   cookiePath,
		LoginTimeout: loginTimeout,
	})
	if report != nil {
		writeSummary(os.Stdout, report)
	}

	if err != nil {
		if errors.Is(err, reddit.ErrNotLoggedIn) {
			logrus.Error("未登录，请以 -headless=false 运行并在浏览器中登录")
		}
		logrus.WithError(err).Error("取消收藏中途停止")
		stop()
		os.Exit(1)
	}
}
