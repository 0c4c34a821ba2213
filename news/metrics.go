package news

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var runsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "news_aggregator_runs_total",
		Help: "Total number of news ticker runs by outcome",
	},
	[]string{"outcome"},
)
