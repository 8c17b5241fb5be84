package syncer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "questionfeed_sync_cycles_total",
		Help: "Total number of sync cycles started",
	})

	CycleFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "questionfeed_sync_cycle_failures_total",
		Help: "Sync cycles that failed before commit",
	})

	StaleDiscardsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "questionfeed_sync_stale_discards_total",
		Help: "Sync cycles discarded because a newer cycle superseded them",
	})

	CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "questionfeed_sync_cycle_duration_seconds",
		Help:    "Duration of committed sync cycles",
		Buckets: prometheus.DefBuckets,
	})
)
