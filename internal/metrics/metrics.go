package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "adboard"

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
)

// Background job metrics
var (
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Total number of jobs processed",
		},
		[]string{"type", "status"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Job execution time distribution",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30},
		},
		[]string{"type"},
	)
)

// Ranking metrics
var (
	RankingCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ranking_candidates",
			Help:      "Number of eligible ads ranked per listing request",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"surface"},
	)

	RankingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ranking_duration_seconds",
			Help:      "Time spent loading and ranking candidates",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"surface"},
	)
)

// Quota and monetization metrics
var (
	QuotaDenialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_denials_total",
			Help:      "Create attempts refused because the agency quota was exhausted",
		},
		[]string{"resource"},
	)

	QuotaDeactivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_deactivations_total",
			Help:      "Ads and spaces deactivated by downgrade enforcement",
		},
		[]string{"resource"},
	)

	SubscriptionAnomaliesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscription_anomalies_total",
			Help:      "Lookups that found more than one active subscription for an agency",
		},
	)

	SubscriptionsPurchased = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscriptions_purchased_total",
			Help:      "Total number of subscription purchases and renewals",
		},
		[]string{"plan"},
	)

	BoostTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "boost_transitions_total",
			Help:      "Ad boost lifecycle transitions by target state",
		},
		[]string{"state"},
	)
)
