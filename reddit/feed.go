package reddit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/xpzouying/unsave-mcp/unsave"
)

const defaultConfirmTimeout = 3 * time.Second

var ErrFeedRootMissing = errors.New("shreddit-feed root not found")

// Feed 基于 rod 页面的 unsave.FeedSource 实现
type Feed struct {
	page           *rod.Page
	savedLabel     string
	confirmTimeout time.Duration
}

// NewFeed savedLabel 用于点击后确认按钮文字已经变化，比较时忽略首尾空白和大小写
func NewFeed(page *rod.Page, savedLabel string) *Feed {
	if strings.TrimSpace(savedLabel) == "" {
		savedLabel = unsave.DefaultSavedLabel
	}
	return &Feed{
		page:           page,
		savedLabel:     normalizeLabel(savedLabel),
		confirmTimeout: defaultConfirmTimeout,
	}
}

// RenderedNodes 读取当前分配到信息流 slot 的元素，article 和 faceplate-batch 分别转成帖子和包装容器
func (f *Feed) RenderedNodes(ctx context.Context) ([]unsave.Node, error) {
	page := f.page.Context(ctx)

	ready, err := page.Eval(feedRootReadyJS)
	if err != nil {
		return nil, errors.Wrap(err, "check feed root")
	}
	if !ready.Value.Bool() {
		return nil, ErrFeedRootMissing
	}

	elements, err := page.ElementsByJS(rod.Eval(assignedElementsJS))
	if err != nil {
		return nil, errors.Wrap(err, "list feed elements")
	}
	logrus.Debugf("信息流 slot 中共有 %d 个元素", len(elements))

	nodes := make([]unsave.Node, 0, len(elements))
	index := 0
	for i, el := range elements {
		tag, err := el.Eval(tagNameJS)
		if err != nil {
			logrus.Debugf("读取第 %d 个元素标签失败: %v", i, err)
			nodes = append(nodes, unsave.Node{Kind: unsave.NodeOther})
			continue
		}

		switch classifyTag(tag.Value.Str()) {
		case unsave.NodePost:
			index++
			nodes = append(nodes, unsave.PostNode(f.newPost(el, index)))

		case unsave.NodeWrapper:
			articles, err := el.Elements(tagArticle)
			if err != nil {
				logrus.Debugf("读取 faceplate-batch 中的帖子失败: %v", err)
				nodes = append(nodes, unsave.Node{Kind: unsave.NodeOther})
				continue
			}
			children := make([]unsave.PostHandle, 0, len(articles))
			for _, article := range articles {
				index++
				children = append(children, f.newPost(article, index))
			}
			nodes = append(nodes, unsave.WrapperNode(children...))

		default:
			nodes = append(nodes, unsave.Node{Kind: unsave.NodeOther})
		}
	}

	return nodes, nil
}

// Extent 页面可滚动高度
func (f *Feed) Extent(ctx context.Context) (int, error) {
	res, err := f.page.Context(ctx).Eval(extentJS)
	if err != nil {
		return 0, errors.Wrap(err, "read scroll height")
	}
	return res.Value.Int(), nil
}

// RequestMore 平滑滚动到底部触发懒加载
func (f *Feed) RequestMore(ctx context.Context) error {
	if _, err := f.page.Context(ctx).Eval(scrollToBottomJS); err != nil {
		return errors.Wrap(err, "scroll to bottom")
	}
	return nil
}

func (f *Feed) newPost(el *rod.Element, index int) *Post {
	id := ""
	if res, err := el.Eval(permalinkJS); err == nil {
		id = parsePermalink(res.Value.Str())
	}
	if id == "" {
		id = fmt.Sprintf("#%d", index)
	}

	return &Post{
		el:             el,
		id:             id,
		savedLabel:     f.savedLabel,
		confirmTimeout: f.confirmTimeout,
	}
}

// classifyTag 信息流 slot 中元素标签对应的节点类型
func classifyTag(tag string) unsave.NodeKind {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case tagArticle:
		return unsave.NodePost
	case tagFaceplateBatch:
		return unsave.NodeWrapper
	default:
		return unsave.NodeOther
	}
}

// normalizeLabel 与 unsave.Policy.Classify 相同的比较口径
func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
