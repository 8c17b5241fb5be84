package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	QuestionCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "questionfeed_store_questions",
		Help: "Number of questions currently held by the store",
	})

	MergesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "questionfeed_store_merges_total",
		Help: "Total number of single-question data merges",
	})

	FollowTogglesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "questionfeed_store_follow_toggles_total",
		Help: "Total number of follow toggles",
	})

	QuestionsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "questionfeed_store_questions_added_total",
		Help: "Total number of questions created through the store",
	})
)
