// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScoresRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "competition_scores_recorded_total",
			Help: "Total number of score updates",
		},
		[]string{"event", "round"},
	)

	PromotionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "competition_promotions_total",
			Help: "Total number of promotion runs",
		},
		[]string{"event", "outcome"},
	)

	FinalScoreHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "competition_final_score",
			Help:    "Distribution of derived final scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"event"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
