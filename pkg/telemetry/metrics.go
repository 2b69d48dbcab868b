// Package telemetry pkg/telemetry/metrics.go holds the service's own
// Prometheus instrumentation, registered once at init and exposed by the
// HTTP server on /metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "streampulse"

var (
	// PointsIngested counts successfully parsed and stored points.
	PointsIngested = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "points_ingested_total",
		Help:      "Metric points accepted by the ingestion endpoint.",
	})

	// MalformedFrames counts ingestion frames dropped for parse failures.
	MalformedFrames = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "malformed_frames_total",
		Help:      "Ingestion frames dropped because they failed to parse.",
	})

	// BroadcastsDropped counts points dropped because the hub inbox was full.
	BroadcastsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcasts_dropped_total",
		Help:      "Points dropped before fan-out because the hub inbox was full.",
	})

	// SlowConsumersEvicted counts subscribers evicted for saturated queues.
	SlowConsumersEvicted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slow_consumers_evicted_total",
		Help:      "Subscribers forcibly unregistered for a full outbound queue.",
	})

	// SubscribersConnected tracks the live subscriber count.
	SubscribersConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "subscribers_connected",
		Help:      "Currently registered dashboard subscribers.",
	})

	// SinkPointsWritten counts points persisted by the durable sink.
	SinkPointsWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sink_points_written_total",
		Help:      "Points written to the durable sink.",
	})

	// SinkPointsDropped counts points the sink tap shed under pressure.
	SinkPointsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sink_points_dropped_total",
		Help:      "Points dropped because the sink feed was full.",
	})
)

func init() {
	prometheus.MustRegister(
		PointsIngested,
		MalformedFrames,
		BroadcastsDropped,
		SlowConsumersEvicted,
		SubscribersConnected,
		SinkPointsWritten,
		SinkPointsDropped,
	)
}
