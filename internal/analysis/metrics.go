package analysis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analyzeCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "veedor",
			Name:      "analyze_calls_total",
			Help:      "Total vision backend analysis calls by outcome",
		},
		[]string{"status"},
	)

	analyzeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "veedor",
			Name:      "analyze_duration_seconds",
			Help:      "Duration of vision backend analysis calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 9), // 0.5s to ~128s
		},
	)

	extractRecoveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "veedor",
			Name:      "extract_recoveries_total",
			Help:      "JSON extraction outcomes by winning strategy",
		},
		[]string{"strategy"},
	)
)
