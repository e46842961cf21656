// Package metrics provides Prometheus instrumentation for the chat backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WSConnectionsActive tracks live websocket connections.
	WSConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_ws_connections_active",
			Help: "Number of active websocket connections",
		},
	)

	// MessagesSentTotal counts persisted and dispatched messages.
	MessagesSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_sent_total",
			Help: "Total messages sent through the dispatcher",
		},
	)

	// NotificationsTotal counts per-user notification fanout by delivery path.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_notifications_total",
			Help: "Total message notifications fanned out to user channels",
		},
		[]string{"delivery"},
	)

	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path", "status"},
	)
)

// RecordRequest records metrics for a completed HTTP request.
func RecordRequest(method, path, status string, seconds float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(seconds)
}

// RecordNotification records one notification delivery on the given path,
// either "realtime" or "queued".
func RecordNotification(delivery string) {
	NotificationsTotal.WithLabelValues(delivery).Inc()
}
