package unsave

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Driver 批量取消收藏的滚动驱动器：
// Draining（处理当前批次）-> Extending（触发加载）-> Measuring（检测增长）
// -> Draining 或 Terminated。
type Driver struct {
	feed     FeedSource
	loader   *BatchLoader
	actor    *PostActor
	policy   Policy
	observer Observer
	sleep    Sleeper
	runID    string
}

type DriverOption func(*Driver)

// WithObserver 设置指标观察者
func WithObserver(o Observer) DriverOption {
	return func(d *Driver) {
		if o != nil {
			d.observer = o
		}
	}
}

// WithSleeper 替换等待实现，测试中用于跳过真实延迟
func WithSleeper(s Sleeper) DriverOption {
	return func(d *Driver) {
		if s != nil {
			d.sleep = s
		}
	}
}

// WithRunID 指定运行 ID，不指定时自动生成
func WithRunID(id string) DriverOption {
	return func(d *Driver) {
		d.runID = id
	}
}

func NewDriver(feed FeedSource, policy Policy, opts ...DriverOption) (*Driver, error) {
	if err := policy.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid policy")
	}

	d := &Driver{
		feed:     feed,
		loader:   NewBatchLoader(feed),
		actor:    NewPostActor(policy),
		policy:   policy,
		observer: nopObserver{},
		sleep:    SleepContext,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.runID == "" {
		d.runID = uuid.NewString()
	}

	return d, nil
}

// Run 从初始状态运行到 Terminated。
// 返回的 Report 总是非空；出现致命错误时 Report.Completed 为 false 且 error 非空。
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	log := logrus.WithField("run_id", d.runID)
	log.Info("🚀 开始批量取消收藏")

	report := &Report{
		RunID:     d.runID,
		StartedAt: time.Now(),
	}

	rc := RunContext{State: StateDraining}
	var runErr error
	for rc.State != StateTerminated {
		next, err := d.Step(ctx, rc)
		rc = next
		if err != nil {
			runErr = err
			break
		}
	}

	report.FinishedAt = time.Now()
	report.Duration = report.FinishedAt.Sub(report.StartedAt)
	report.Stats = rc.Stats
	report.Scroll = rc.Scroll

	if runErr != nil {
		report.Reason = ReasonAborted
		report.Error = runErr.Error()
		log.WithError(runErr).Errorf("⛔ 取消收藏中途停止，共处理 %d 个帖子，%d 个批次",
			rc.Stats.TotalProcessed, rc.Stats.TotalBatches)
		return report, runErr
	}

	report.Completed = true
	report.Reason = ReasonFeedExhausted
	log.Infof("✅ 全部取消收藏完成，没有更多帖子可加载。共处理 %d 个帖子，%d 个批次，耗时 %v",
		rc.Stats.TotalProcessed, rc.Stats.TotalBatches, report.Duration.Round(time.Second))
	return report, nil
}

// Step 执行一次状态转换，返回新的运行上下文。
// 出错时返回的上下文保留出错前已累计的统计。
func (d *Driver) Step(ctx context.Context, rc RunContext) (RunContext, error) {
	if err := ctx.Err(); err != nil {
		return rc, err
	}

	switch rc.State {
	case StateDraining:
		handles, err := d.loader.LoadBatch(ctx)
		if err != nil {
			return rc, err
		}
		if len(handles) == 0 {
			rc.Stats.CurrentBatchSize = 0
			rc.Stats.CurrentBatchActed = 0
			logrus.WithField("run_id", d.runID).Info("当前没有已加载的帖子")
		} else {
			stats, _, err := d.DrainBatch(ctx, rc.Stats, handles)
			rc.Stats = stats
			if err != nil {
				return rc, err
			}
		}
		rc.State = StateExtending
		return rc, nil

	case StateExtending:
		logrus.WithField("run_id", d.runID).Info("⬇️ 滚动加载更多帖子...")
		if err := d.feed.RequestMore(ctx); err != nil {
			return rc, errors.Wrap(err, "request more content")
		}
		if err := d.sleep(ctx, d.policy.SettleDelay); err != nil {
			return rc, err
		}
		rc.State = StateMeasuring
		return rc, nil

	case StateMeasuring:
		extent, err := d.feed.Extent(ctx)
		if err != nil {
			return rc, errors.Wrap(err, "read feed extent")
		}
		d.observer.ObserveExtent(extent)

		scroll, changed := Measure(rc.Scroll, extent)
		rc.Scroll = scroll

		if changed {
			logrus.WithFields(logrus.Fields{
				"run_id": d.runID,
				"extent": extent,
			}).Debug("信息流长度增长")
			if err := d.sleep(ctx, randomDuration(d.policy.CycleDelayMin, d.policy.CycleDelayMax)); err != nil {
				return rc, err
			}
			rc.State = StateDraining
			return rc, nil
		}

		logrus.WithFields(logrus.Fields{
			"run_id":   d.runID,
			"extent":   extent,
			"stagnant": scroll.StagnantCycleCount,
		}).Infof("信息流长度未变化 (%d/%d)", scroll.StagnantCycleCount, d.policy.StagnationThreshold)

		if scroll.StagnantCycleCount >= d.policy.StagnationThreshold {
			rc.State = StateTerminated
		} else {
			rc.State = StateDraining
		}
		return rc, nil

	default:
		return rc, nil
	}
}

// Measure 根据新读到的长度更新滚动状态。
// 长度变化时重置停滞计数并返回 changed=true；长度不变时计数加一。
func Measure(s ScrollState, extent int) (next ScrollState, changed bool) {
	if extent == s.LastObservedExtent {
		s.StagnantCycleCount++
		return s, false
	}
	return ScrollState{LastObservedExtent: extent}, true
}

// DrainBatch 顺序处理一个批次的所有帖子，返回更新后的统计和每个帖子的结果。
// 单个帖子的失败不会中断批次；只有 ctx 取消会提前返回。
func (d *Driver) DrainBatch(ctx context.Context, stats RunStats, handles []PostHandle) (RunStats, []ActionOutcome, error) {
	size := len(handles)
	stats.TotalBatches++
	stats.CurrentBatchSize = size
	stats.CurrentBatchActed = 0
	d.observer.ObserveBatch(size)

	log := logrus.WithFields(logrus.Fields{
		"run_id": d.runID,
		"batch":  stats.TotalBatches,
	})
	log.Infof("📦 批次 #%d: 发现 %d 个帖子", stats.TotalBatches, size)

	outcomes := make([]ActionOutcome, 0, size)
	for i, h := range handles {
		if err := ctx.Err(); err != nil {
			return stats, outcomes, err
		}

		outcome := d.actor.Act(ctx, h)
		outcomes = append(outcomes, outcome)
		d.observer.ObserveOutcome(outcome)

		postLog := log.WithFields(logrus.Fields{
			"post":    h.ID(),
			"outcome": outcome.Kind.String(),
		})

		switch outcome.Kind {
		case OutcomeActed:
			stats.CurrentBatchActed++
			stats.TotalProcessed++
			postLog.Infof("✓ 已取消收藏 %d/%d (累计: %d)", i+1, size, stats.TotalProcessed)

			// 只有真正点击过才需要放慢节奏
			if err := d.sleep(ctx, randomDuration(d.policy.ActionDelayMin, d.policy.ActionDelayMax)); err != nil {
				return stats, outcomes, err
			}
		case OutcomeSkippedAlreadyUnsaved:
			stats.TotalSkipped++
			postLog.Info("⚪ 帖子已是未收藏状态")
		case OutcomeSkippedUnknown:
			stats.TotalUnknown++
			postLog.Warn("无法定位收藏按钮，跳过")
		case OutcomeFailed:
			stats.TotalFailed++
			postLog.Warnf("✗ 第 %d 个帖子取消收藏失败: %s", i+1, outcome.Reason)
		}
	}

	log.Infof("✅ 批次 #%d 完成: %d/%d 个帖子已取消收藏", stats.TotalBatches, stats.CurrentBatchActed, size)
	return stats, outcomes, nil
}
