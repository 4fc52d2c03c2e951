package reddit

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	sessionCookieName = "reddit_session"
	loginPollInterval = 2 * time.Second
)

var ErrNotLoggedIn = errors.New("not logged in to reddit")

type LoginAction struct {
	page *rod.Page
}

func NewLogin(page *rod.Page) *LoginAction {
	return &LoginAction{page: page}
}

// CheckLoginStatus 通过会话 cookie 判断是否已登录
func (a *LoginAction) CheckLoginStatus(ctx context.Context) (bool, error) {
	cks, err := a.page.Browser().Context(ctx).GetCookies()
	if err != nil {
		return false, errors.Wrap(err, "get browser cookies")
	}
	return hasSessionCookie(cks, time.Now()), nil
}

// WaitForLogin 等待用户在浏览器窗口中手动登录，ctx 结束时返回 false
func (a *LoginAction) WaitForLogin(ctx context.Context) bool {
	ticker := time.NewTicker(loginPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			ok, err := a.CheckLoginStatus(ctx)
			if err != nil {
				logrus.Debugf("检查登录状态失败: %v", err)
				continue
			}
			if ok {
				return true
			}
		}
	}
}

func hasSessionCookie(cks []*proto.NetworkCookie, now time.Time) bool {
	for _, c := range cks {
		if c == nil || c.Name != sessionCookieName || c.Value == "" {
			continue
		}
		// 会话 cookie 的 Expires 为 -1
		if !c.Session && c.Expires > 0 && time.Unix(int64(c.Expires), 0).Before(now) {
			continue
		}
		return true
	}
	return false
}
