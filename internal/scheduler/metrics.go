package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	EagerFetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "questionfeed_scheduler_eager_fetches_total",
		Help: "Trade-history fetches issued for the eager prefix of a batch",
	})

	FetchFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "questionfeed_scheduler_fetch_failures_total",
		Help: "Trade-history fetches that failed and degraded to empty data",
	})
)
