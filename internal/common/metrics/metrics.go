package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of jobs currently being handled",
		},
		[]string{"task_type"},
	)

	MentorMultiplier = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mentor_pricing_multiplier",
			Help:    "Distribution of computed mentor multipliers",
			Buckets: prometheus.LinearBuckets(1.0, 0.125, 13),
		},
		[]string{"mode"},
	)

	MentorFinalPrice = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mentor_pricing_final_price",
			Help:    "Distribution of computed final prices",
			Buckets: prometheus.LinearBuckets(500, 62.5, 13),
		},
		[]string{"mode"},
	)

	MentorQuotesCapped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentor_pricing_capped_total",
			Help: "Quotes whose multiplier hit the cap",
		},
		[]string{"mode"},
	)

	MentorProfileCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentor_profile_cache_lookups_total",
			Help: "Profile cache lookups by result",
		},
		[]string{"result"},
	)
)

// ObserveQuote records one computed quote.
func ObserveQuote(mode string, multiplier float64, finalPrice int, capped bool) {
	MentorMultiplier.WithLabelValues(mode).Observe(multiplier)
	MentorFinalPrice.WithLabelValues(mode).Observe(float64(finalPrice))
	if capped {
		MentorQuotesCapped.WithLabelValues(mode).Inc()
	}
}
