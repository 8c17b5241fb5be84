package reload

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var BumpsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "questionfeed_reload_bumps_total",
	Help: "Total number of revalidation bumps",
})
