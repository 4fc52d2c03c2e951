package browser

import (
	"runtime"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
	"github.com/xpzouying/headless_browser"

	"github.com/xpzouying/unsave-mcp/cookies"
)

const (
	// 收藏页靠滚动懒加载，视口太矮时一次只渲染很少的帖子
	viewportWidth  = 1280
	viewportHeight = 1000
)

type browserConfig struct {
	binPath    string
	cookiePath string
}

type Option func(*browserConfig)

func WithBinPath(binPath string) Option {
	return func(c *browserConfig) {
		c.binPath = binPath
	}
}

// WithCookiesPath 指定启动时注入的 cookies 文件，默认使用 cookies.GetCookiesFilePath()
func WithCookiesPath(path string) Option {
	return func(c *browserConfig) {
		c.cookiePath = path
	}
}

func NewBrowser(headless bool, options ...Option) *headless_browser.Browser {
	cfg := &browserConfig{}
	for _, opt := range options {
		opt(cfg)
	}

	opts := []headless_browser.Option{
		headless_browser.WithHeadless(headless),
	}
	if cfg.binPath != "" {
		opts = append(opts, headless_browser.WithChromeBinPath(cfg.binPath))
	}

	cookiePath := cfg.cookiePath
	if cookiePath == "" {
		cookiePath = cookies.GetCookiesFilePath()
	}

	if data, err := cookies.NewLoadCookie(cookiePath).LoadCookies(); err == nil {
		opts = append(opts, headless_browser.WithCookies(string(data)))
		logrus.WithField("cookies_path", cookiePath).Debug("loaded cookies from file successfully")
	} else {
		logrus.WithField("cookies_path", cookiePath).Warnf("failed to load cookies, login required: %v", err)
	}

	return headless_browser.New(opts...)
}

// ConfigurePage 设置视口大小，并在 Windows 下修正 stealth 伪装出的 Mac UA
func ConfigurePage(page *rod.Page) {
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		logrus.Warnf("failed to set viewport: %v", err)
	}

	if runtime.GOOS != "windows" {
		return
	}

	ua := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// 页面可能已关闭，忽略错误
	_ = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: ua,
		Platform:  "Windows",
	})

	if _, err := page.EvalOnNewDocument(`
		Object.defineProperty(navigator, 'platform', { get: () => 'Win32' });
		Object.defineProperty(navigator, 'userAgent', { get: () => '` + ua + `' });
	`); err != nil {
		logrus.Warnf("failed to set user agent script: %v", err)
	}

	logrus.Info("已修正 Windows 环境下的 User-Agent 设置")
}
