package unsave

import (
	"context"

	"github.com/pkg/errors"
)

// ErrUnresolvable 帖子内找不到收藏按钮或其文字
var ErrUnresolvable = errors.New("saved indicator unresolvable")

// PostHandle 指向单个帖子的不透明引用，只在当前批次内有效，不能跨周期缓存
type PostHandle interface {
	// ID 仅用于日志
	ID() string
	// SavedLabel 读取收藏按钮当前的文字，定位失败时返回 ErrUnresolvable
	SavedLabel(ctx context.Context) (string, error)
	// Toggle 点击收藏按钮一次
	Toggle(ctx context.Context) error
}

// NodeKind 信息流容器中一个子元素的类型
type NodeKind int

const (
	NodeOther NodeKind = iota
	NodePost
	// NodeWrapper 追加内容后出现的包装容器，帖子嵌套在它下面一层
	NodeWrapper
)

// Node 信息流中当前渲染的一个元素
type Node struct {
	Kind     NodeKind
	Post     PostHandle
	Children []PostHandle
}

// PostNode 直接出现在信息流中的帖子
func PostNode(h PostHandle) Node {
	return Node{Kind: NodePost, Post: h}
}

// WrapperNode 包装容器及其中的帖子
func WrapperNode(children ...PostHandle) Node {
	return Node{Kind: NodeWrapper, Children: children}
}

// FeedSource 宿主页面提供的信息流能力
type FeedSource interface {
	// RenderedNodes 当前渲染在信息流中的元素，按页面顺序
	RenderedNodes(ctx context.Context) ([]Node, error)
	// Extent 信息流已加载内容的总长度（如页面可滚动高度）
	Extent(ctx context.Context) (int, error)
	// RequestMore 触发懒加载（如滚动到底部）
	RequestMore(ctx context.Context) error
}

// Observer 运行过程的观察者，用于指标采集
type Observer interface {
	ObserveOutcome(outcome ActionOutcome)
	ObserveBatch(size int)
	ObserveExtent(extent int)
}

type nopObserver struct{}

func (nopObserver) ObserveOutcome(ActionOutcome) {}
func (nopObserver) ObserveBatch(int)             {}
func (nopObserver) ObserveExtent(int)            {}
