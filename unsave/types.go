package unsave

import (
	"fmt"
	"time"
)

// SavedState 帖子当前的收藏状态
type SavedState int

const (
	// StateUnknown 无法定位收藏按钮（页面结构变化或内容仍在加载），不做任何操作
	StateUnknown SavedState = iota
	StateSaved
	StateUnsaved
)

func (s SavedState) String() string {
	switch s {
	case StateSaved:
		return "saved"
	case StateUnsaved:
		return "unsaved"
	default:
		return "unknown"
	}
}

// OutcomeKind 单个帖子的处理结果类型
type OutcomeKind int

const (
	OutcomeActed OutcomeKind = iota + 1
	OutcomeSkippedAlreadyUnsaved
	OutcomeSkippedUnknown
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeActed:
		return "acted"
	case OutcomeSkippedAlreadyUnsaved:
		return "skipped_already_unsaved"
	case OutcomeSkippedUnknown:
		return "skipped_unknown"
	case OutcomeFailed:
		return "failed"
	default:
		return "invalid"
	}
}

// ActionOutcome PostActor 对单个帖子的处理结果，Reason 仅在 Failed 时有值
type ActionOutcome struct {
	Kind   OutcomeKind `json:"kind"`
	Reason string      `json:"reason,omitempty"`
}

var (
	Acted                 = ActionOutcome{Kind: OutcomeActed}
	SkippedAlreadyUnsaved = ActionOutcome{Kind: OutcomeSkippedAlreadyUnsaved}
	SkippedUnknown        = ActionOutcome{Kind: OutcomeSkippedUnknown}
)

// Failed 构造失败结果
func Failed(reason string) ActionOutcome {
	return ActionOutcome{Kind: OutcomeFailed, Reason: reason}
}

func (o ActionOutcome) String() string {
	if o.Kind == OutcomeFailed {
		return fmt.Sprintf("failed(%s)", o.Reason)
	}
	return o.Kind.String()
}

// RunStats 一次运行的累计统计，只在进程启动时归零
type RunStats struct {
	// 整个运行中成功取消收藏的帖子数
	TotalProcessed int `json:"total_processed"`
	// 当前批次中成功取消收藏的帖子数
	CurrentBatchActed int `json:"current_batch_acted"`
	// 已处理的非空批次数
	TotalBatches int `json:"total_batches"`
	// 当前批次的帖子数
	CurrentBatchSize int `json:"current_batch_size"`

	TotalSkipped int `json:"total_skipped"`
	TotalUnknown int `json:"total_unknown"`
	TotalFailed  int `json:"total_failed"`
}

// ScrollState 滚动停滞检测状态
type ScrollState struct {
	LastObservedExtent int `json:"last_observed_extent"`
	StagnantCycleCount int `json:"stagnant_cycle_count"`
}

// State ScrollDriver 状态机的状态
type State int

const (
	StateDraining State = iota
	StateExtending
	StateMeasuring
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateDraining:
		return "draining"
	case StateExtending:
		return "extending"
	case StateMeasuring:
		return "measuring"
	case StateTerminated:
		return "terminated"
	default:
		return "invalid"
	}
}

// RunContext 在每次状态转换之间传递的运行上下文
type RunContext struct {
	State  State       `json:"state"`
	Stats  RunStats    `json:"stats"`
	Scroll ScrollState `json:"scroll"`
}

// Report 一次运行的最终汇总
type Report struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration"`
	Stats      RunStats      `json:"stats"`
	Scroll     ScrollState   `json:"scroll"`
	// Completed 为 true 表示因停滞阈值正常结束；false 表示中途异常停止
	Completed bool   `json:"completed"`
	Reason    string `json:"reason"`
	Error     string `json:"error,omitempty"`
}

const (
	ReasonFeedExhausted = "completed, no more posts"
	ReasonAborted       = "stopped abruptly"
)
