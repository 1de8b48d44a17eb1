package capture

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	capturesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "veedor",
			Name:      "captures_total",
			Help:      "Total post captures by platform and outcome",
		},
		[]string{"platform", "status"},
	)

	captureDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "veedor",
			Name:      "capture_duration_seconds",
			Help:      "Duration of single post captures in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 8), // 0.5s to ~64s
		},
	)

	sessionLaunchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "veedor",
			Name:      "browser_launches_total",
			Help:      "Total headless browser session launches",
		},
		[]string{"status"},
	)
)
