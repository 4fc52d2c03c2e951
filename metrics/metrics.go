// Package metrics 取消收藏任务的 Prometheus 指标，实现 unsave.Observer
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xpzouying/unsave-mcp/unsave"
)

const namespace = "unsave"

type Recorder struct {
	outcomes  *prometheus.CounterVec
	batches   prometheus.Counter
	batchSize prometheus.Histogram
	extent    prometheus.Gauge
	runs      *prometheus.CounterVec
}

// NewRecorder 创建并注册指标
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posts_total",
			Help:      "Posts processed, by outcome.",
		}, []string{"outcome"}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Non-empty batches drained.",
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Posts per drained batch.",
			Buckets:   prometheus.LinearBuckets(5, 5, 10),
		}),
		extent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_extent",
			Help:      "Last measured feed extent.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Finished runs, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(r.outcomes, r.batches, r.batchSize, r.extent, r.runs)
	return r
}

func (r *Recorder) ObserveOutcome(outcome unsave.ActionOutcome) {
	r.outcomes.WithLabelValues(outcome.Kind.String()).Inc()
}

func (r *Recorder) ObserveBatch(size int) {
	r.batches.Inc()
	r.batchSize.Observe(float64(size))
}

func (r *Recorder) ObserveExtent(extent int) {
	r.extent.Set(float64(extent))
}

// ObserveRun 记录一次运行的结果
func (r *Recorder) ObserveRun(report *unsave.Report) {
	if report == nil {
		return
	}
	result := "aborted"
	if report.Completed {
		result = "completed"
	}
	r.runs.WithLabelValues(result).Inc()
}

// Handler /metrics 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
