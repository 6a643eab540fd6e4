package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wiseadvice_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wiseadvice_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ReactionsTotal counts reaction changes by target kind, type and action.
	ReactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wiseadvice_reactions_total",
		Help: "Reactions applied or removed",
	}, []string{"target", "type", "action"})

	// RatingDelta observes every rating adjustment applied to an author.
	RatingDelta = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wiseadvice_rating_delta",
		Help:    "Rating adjustments applied to authors",
		Buckets: []float64{-50, -10, -2, -1, 0, 1, 2, 10, 50},
	})

	// NotificationsCreated counts notification rows by event.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wiseadvice_notifications_created_total",
		Help: "Notification rows inserted",
	}, []string{"event"})

	// NotificationFailures counts fan-out errors that were swallowed.
	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wiseadvice_notification_failures_total",
		Help: "Notification fan-out failures by stage",
	}, []string{"stage"})

	// WebSocketConnectionsTotal is the gauge of open notification sockets.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wiseadvice_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped because a client was slow.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wiseadvice_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// TrackQuery returns a func that records the query latency when called.
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
