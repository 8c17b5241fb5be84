package window

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var EnterViewRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "questionfeed_window_enter_view_requests_total",
	Help: "Data requests triggered by items entering the visible range",
})
