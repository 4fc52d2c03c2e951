package reddit

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/xpzouying/unsave-mcp/unsave"
)

var errSaveItemVanished = errors.New("save menu item vanished before click")

// Post 单个 article 元素，只在当前批次内有效
type Post struct {
	el             *rod.Element
	id             string
	savedLabel     string
	confirmTimeout time.Duration
}

func (p *Post) ID() string {
	return p.id
}

// SavedLabel 读取溢出菜单中"保存"项的文字
func (p *Post) SavedLabel(ctx context.Context) (string, error) {
	res, err := p.el.Context(ctx).Eval(savedLabelJS)
	if err != nil {
		return "", errors.Wrap(err, "read save menu label")
	}
	if res.Value.Nil() {
		return "", unsave.ErrUnresolvable
	}
	return res.Value.Str(), nil
}

// Toggle 点击"保存"项，并等待按钮文字变化。
// 超时未变化只记录日志：点击已经发生，不能再次点击。
func (p *Post) Toggle(ctx context.Context) error {
	el := p.el.Context(ctx)

	res, err := el.Eval(toggleJS)
	if err != nil {
		return errors.Wrap(err, "click save menu item")
	}
	if !res.Value.Bool() {
		return errSaveItemVanished
	}

	waitEl := el.Timeout(p.confirmTimeout)
	defer waitEl.CancelTimeout()
	if err := waitEl.Wait(rod.Eval(labelChangedJS, p.savedLabel)); err != nil {
		logrus.WithField("post", p.id).Debugf("点击后按钮文字未在 %v 内变化: %v", p.confirmTimeout, err)
	}

	return nil
}
