package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Poll results.
const (
	ResultEmpty     = "empty"
	ResultUnchanged = "unchanged"
	ResultChanged   = "changed"
	ResultError     = "error"
)

// Notification kinds.
const (
	KindStatus  = "status"
	KindFailure = "failure"
)

var (
	PollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homework_polls_total",
			Help: "Total number of API polls by result",
		},
		[]string{"result"},
	)

	APIRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "homework_api_request_duration_seconds",
			Help:    "Practicum API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homework_notifications_total",
			Help: "Total number of Telegram notifications by kind and result",
		},
		[]string{"kind", "result"},
	)

	Cursor = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "homework_poll_cursor_seconds",
			Help: "Current from_date cursor (unix seconds)",
		},
	)

	LastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "homework_last_successful_poll_seconds",
			Help: "Unix time of the last poll that completed without error",
		},
	)
)
