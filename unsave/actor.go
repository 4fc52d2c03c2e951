package unsave

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// PostActor 对单个帖子执行一次"检查状态 -> 必要时取消收藏"
type PostActor struct {
	policy Policy
}

func NewPostActor(policy Policy) *PostActor {
	return &PostActor{policy: policy}
}

// Act 先读按钮文字再决定是否点击。只有"已收藏"才点击，
// 否则重复处理同一帖子会在收藏/取消收藏之间来回切换。
// 任何错误（包括 panic）都在这里转换为结果，不会向上抛出。
func (a *PostActor) Act(ctx context.Context, h PostHandle) (outcome ActionOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Failed(fmt.Sprintf("panic: %v", r))
		}
	}()

	label, err := h.SavedLabel(ctx)
	if err != nil {
		if errors.Is(err, ErrUnresolvable) {
			return SkippedUnknown
		}
		return Failed(err.Error())
	}

	switch a.policy.Classify(label) {
	case StateSaved:
		if err := h.Toggle(ctx); err != nil {
			return Failed(err.Error())
		}
		return Acted
	case StateUnsaved:
		return SkippedAlreadyUnsaved
	default:
		return SkippedUnknown
	}
}
