package reddit

import (
	"context"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/xpzouying/unsave-mcp/unsave"
)

const (
	// DefaultSavedURL 当前登录用户的收藏页
	DefaultSavedURL = "https://www.reddit.com/user/me/saved/"
	LoginURL        = "https://www.reddit.com/login/"
)

const redditHost = "www.reddit.com"

// ErrInvalidFeedURL 收藏页地址不是 https://www.reddit.com/ 下的页面
var ErrInvalidFeedURL = errors.New("feed url must be an https://www.reddit.com/ page")

const (
	navigateTimeout = 60 * time.Second
	feedWaitTimeout = 30 * time.Second
	settleAfterLoad = 1500 * time.Millisecond
)

// ValidateFeedURL 只允许 https://www.reddit.com/ 下的地址，空地址表示使用默认收藏页
func ValidateFeedURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrapf(ErrInvalidFeedURL, "parse %q: %v", raw, err)
	}
	if u.Scheme != "https" || u.User != nil || u.Host != redditHost {
		return errors.Wrapf(ErrInvalidFeedURL, "got %q", raw)
	}
	return nil
}

// OpenSaved 打开收藏页并等待信息流出现
func OpenSaved(ctx context.Context, page *rod.Page, feedURL string) error {
	if feedURL == "" {
		feedURL = DefaultSavedURL
	}
	if err := ValidateFeedURL(feedURL); err != nil {
		return err
	}
	logrus.WithField("url", feedURL).Info("打开收藏页")

	navCtx, cancel := context.WithTimeout(ctx, navigateTimeout)
	defer cancel()

	navPage := page.Context(navCtx)
	if err := navPage.Navigate(feedURL); err != nil {
		return errors.Wrapf(err, "navigate to %s", feedURL)
	}
	if err := navPage.WaitLoad(); err != nil {
		return errors.Wrap(err, "wait page load")
	}

	feedPage := page.Context(ctx).Timeout(feedWaitTimeout)
	defer feedPage.CancelTimeout()
	if _, err := feedPage.Element("shreddit-feed"); err != nil {
		return errors.Wrapf(ErrFeedRootMissing, "wait for feed: %v", err)
	}

	// 等待首屏帖子渲染
	return unsave.SleepContext(ctx, settleAfterLoad)
}

// OpenLogin 打开登录页，供有界面模式下手动登录
func OpenLogin(ctx context.Context, page *rod.Page) error {
	navCtx, cancel := context.WithTimeout(ctx, navigateTimeout)
	defer cancel()

	navPage := page.Context(navCtx)
	if err := navPage.Navigate(LoginURL); err != nil {
		return errors.Wrap(err, "navigate to login page")
	}
	return errors.Wrap(navPage.WaitLoad(), "wait login page load")
}
