// Package models pkg/models/metrics.go
package models

// MetricPoint is a single timestamped sample for a named metric. Points are
// copied by value and never mutated after ingestion. Timestamps are
// caller-supplied epoch milliseconds; ordering is not validated.
type MetricPoint struct {
	Timestamp  int64             `json:"timestamp"`
	MetricType string            `json:"metric_type"`
	MetricName string            `json:"metric_name"`
	Value      float64           `json:"value"`
	Labels     map[string]string `json:"labels,omitempty"`
}
