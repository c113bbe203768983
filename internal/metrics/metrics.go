// Package metrics 归档服务的 Prometheus 指标
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 提交结果标签
const (
	OutcomeStored   = "stored"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	// submissionsTotal 按家族与结果统计提交次数
	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordlearchive_submissions_total",
		Help: "Puzzle result submissions by variant and outcome",
	}, []string{"variant", "outcome"})

	// rejectionsTotal 按拒绝原因统计
	rejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordlearchive_rejections_total",
		Help: "Rejected submissions by variant and reason",
	}, []string{"variant", "kind"})

	unrecognizedGlyphsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordlearchive_unrecognized_glyphs_total",
		Help: "Result characters ignored while decoding, by variant",
	}, []string{"variant"})

	decodeSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wordlearchive_decode_seconds",
		Help:    "Time spent decoding one submission",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12), // 50us to ~100ms
	})
)

// ObserveSubmission 记录一次提交
func ObserveSubmission(variant, outcome string) {
	submissionsTotal.WithLabelValues(variant, outcome).Inc()
}

// ObserveRejection 记录拒绝原因
func ObserveRejection(variant, kind string) {
	rejectionsTotal.WithLabelValues(variant, kind).Inc()
}

// AddUnrecognized 记录被忽略的字形数量
func AddUnrecognized(variant string, n int) {
	if n <= 0 {
		return
	}
	unrecognizedGlyphsTotal.WithLabelValues(variant).Add(float64(n))
}

// ObserveDecode 记录解码耗时
func ObserveDecode(d time.Duration) {
	decodeSeconds.Observe(d.Seconds())
}
