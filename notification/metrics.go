package notification

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	channelDiscord = "discord"
	channelEmail   = "email"
)

var (
	deliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_deliveries_total",
			Help: "Total number of outbound notifications by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	deliveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notification_delivery_duration_seconds",
			Help:    "Duration of outbound notification deliveries",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
		},
		[]string{"channel"},
	)
)

func recordDelivery(channel string, err error) {
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	deliveriesTotal.WithLabelValues(channel, outcome).Inc()
}
