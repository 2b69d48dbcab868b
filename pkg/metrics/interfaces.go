// Package metrics pkg/metrics/interfaces.go
package metrics

import (
	"time"

	"github.com/tvaughn716/streampulse/pkg/models"
)

//go:generate mockgen -destination=mock_metrics.go -package=metrics github.com/tvaughn716/streampulse/pkg/metrics MetricStore

// MetricStore is the query/append surface the hub and HTTP layer depend on.
type MetricStore interface {
	// Append records a point under its metric name.
	Append(point models.MetricPoint)
	// QueryLast returns the most recent points for a metric, newest first.
	QueryLast(metricName string, maxPoints int) []models.MetricPoint
	// QueryRange returns points within [startMs, endMs], oldest first.
	QueryRange(metricName string, startMs, endMs int64, maxPoints int) []models.MetricPoint
	// MetricNames returns a snapshot of known metric names.
	MetricNames() []string
	// RecentWindow returns the points within [now-window, now] per metric.
	RecentWindow(window time.Duration) map[string][]models.MetricPoint
}
