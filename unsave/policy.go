package unsave

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultActionDelayMin      = 500 * time.Millisecond
	DefaultActionDelayMax      = 1500 * time.Millisecond
	DefaultSettleDelay         = 2000 * time.Millisecond
	DefaultCycleDelayMin       = 1000 * time.Millisecond
	DefaultCycleDelayMax       = 3000 * time.Millisecond
	DefaultStagnationThreshold = 3

	DefaultSavedLabel   = "Remove from saved"
	DefaultUnsavedLabel = "Save"
)

// Policy 节奏与终止策略。阈值和延迟窗口是经验值，不同站点可能需要调整
type Policy struct {
	// 每次成功取消收藏后的随机停顿
	ActionDelayMin time.Duration `json:"action_delay_min"`
	ActionDelayMax time.Duration `json:"action_delay_max"`
	// 触发加载后等待新内容出现的时长
	SettleDelay time.Duration `json:"settle_delay"`
	// 内容增长后进入下一轮前的随机停顿
	CycleDelayMin time.Duration `json:"cycle_delay_min"`
	CycleDelayMax time.Duration `json:"cycle_delay_max"`
	// 连续多少轮内容长度不变视为到底
	StagnationThreshold int `json:"stagnation_threshold"`

	// 按钮文字：表示"当前已收藏"与"当前未收藏"
	SavedLabel   string `json:"saved_label"`
	UnsavedLabel string `json:"unsaved_label"`
}

// DefaultPolicy 默认策略
func DefaultPolicy() Policy {
	return Policy{
		ActionDelayMin:      DefaultActionDelayMin,
		ActionDelayMax:      DefaultActionDelayMax,
		SettleDelay:         DefaultSettleDelay,
		CycleDelayMin:       DefaultCycleDelayMin,
		CycleDelayMax:       DefaultCycleDelayMax,
		StagnationThreshold: DefaultStagnationThreshold,
		SavedLabel:          DefaultSavedLabel,
		UnsavedLabel:        DefaultUnsavedLabel,
	}
}

// Validate 检查策略是否合法
func (p Policy) Validate() error {
	if p.ActionDelayMin < 0 || p.ActionDelayMin > p.ActionDelayMax {
		return errors.Errorf("invalid action delay window [%v, %v]", p.ActionDelayMin, p.ActionDelayMax)
	}
	if p.CycleDelayMin < 0 || p.CycleDelayMin > p.CycleDelayMax {
		return errors.Errorf("invalid cycle delay window [%v, %v]", p.CycleDelayMin, p.CycleDelayMax)
	}
	if p.SettleDelay < 0 {
		return errors.Errorf("invalid settle delay %v", p.SettleDelay)
	}
	if p.StagnationThreshold < 1 {
		return errors.Errorf("stagnation threshold must be >= 1, got %d", p.StagnationThreshold)
	}
	if strings.TrimSpace(p.SavedLabel) == "" {
		return errors.New("saved label is empty")
	}
	if strings.EqualFold(strings.TrimSpace(p.SavedLabel), strings.TrimSpace(p.UnsavedLabel)) {
		return errors.New("saved and unsaved labels must differ")
	}
	return nil
}

// Classify 根据按钮文字判断收藏状态，无法识别的文字一律视为 Unknown
func (p Policy) Classify(label string) SavedState {
	label = strings.TrimSpace(label)
	switch {
	case label == "":
		return StateUnknown
	case strings.EqualFold(label, strings.TrimSpace(p.SavedLabel)):
		return StateSaved
	case p.UnsavedLabel != "" && strings.EqualFold(label, strings.TrimSpace(p.UnsavedLabel)):
		return StateUnsaved
	default:
		return StateUnknown
	}
}

// Sleeper 可被取消的等待
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext 等待 d，ctx 取消时提前返回 ctx.Err()
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// randomDuration 在 [min, max] 内均匀随机
func randomDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)+1))
}
