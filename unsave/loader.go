package unsave

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// BatchLoader 每次调用都重新读取当前已渲染的帖子
type BatchLoader struct {
	feed FeedSource
}

func NewBatchLoader(feed FeedSource) *BatchLoader {
	return &BatchLoader{feed: feed}
}

// LoadBatch 返回当前批次的帖子，按页面顺序展开包装容器。
// 没有帖子时返回空切片；信息流根节点缺失等结构性错误原样返回。
func (l *BatchLoader) LoadBatch(ctx context.Context) ([]PostHandle, error) {
	nodes, err := l.feed.RenderedNodes(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load rendered nodes")
	}

	handles := make([]PostHandle, 0, len(nodes))
	for i, node := range nodes {
		switch node.Kind {
		case NodePost:
			if node.Post != nil {
				handles = append(handles, node.Post)
			}
		case NodeWrapper:
			for _, child := range node.Children {
				if child != nil {
					handles = append(handles, child)
				}
			}
		default:
			logrus.Debugf("忽略非帖子元素 #%d", i)
		}
	}

	return handles, nil
}
