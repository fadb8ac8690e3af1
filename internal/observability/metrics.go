package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreOperations counts store operations by operation, backend, and outcome.
	StoreOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artboard_store_operations_total",
		Help: "Total number of store operations by operation, backend, and status",
	}, []string{"op", "backend", "status"})

	// StoreOperationDuration records store operation latency by operation and backend.
	StoreOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "artboard_store_operation_duration_seconds",
		Help:    "Store operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"op", "backend"})

	// FeedEventsPublished counts published live feed events by type.
	FeedEventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artboard_feed_events_total",
		Help: "Total number of feed events published by type",
	}, []string{"type"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artboard_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// ObserveStoreOp records one store operation: a counter bump labeled with the
// outcome, and a latency observation.
func ObserveStoreOp(op, backend string, err error, elapsed time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StoreOperations.WithLabelValues(op, backend, status).Inc()
	StoreOperationDuration.WithLabelValues(op, backend).Observe(elapsed.Seconds())
}
