package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "questionfeed_ledger_requests_total",
		Help: "Total number of markets backend requests by method and status",
	}, []string{"method", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "questionfeed_ledger_request_duration_seconds",
		Help:    "Duration of markets backend requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	TradeHistoryCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "questionfeed_ledger_trade_history_cache_hits_total",
		Help: "Trade history reads served from cache",
	})

	TradeHistoryCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "questionfeed_ledger_trade_history_cache_misses_total",
		Help: "Trade history reads that fell through to the backend",
	})
)
