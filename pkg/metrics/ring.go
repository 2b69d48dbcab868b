// Package metrics pkg/metrics/ring.go provides the fixed-capacity
// time-series storage used by the ingestion and query paths.
package metrics

import (
	"github.com/tvaughn716/streampulse/pkg/models"
)

// RingBuffer is a fixed-capacity circular buffer of metric points for a
// single metric. It performs no internal synchronization: access must be
// serialized by the caller (the Store does this with its lock). Capacity is
// fixed at construction; once full, every append overwrites the oldest slot.
type RingBuffer struct {
	data     []models.MetricPoint
	capacity int
	head     int // next write position
	size     int // 0..capacity
}

// NewRingBuffer creates a ring buffer holding up to capacity points.
// The backing array is the only allocation for the buffer's lifetime.
func NewRingBuffer(capacity int) (*RingBuffer, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	return &RingBuffer{
		data:     make([]models.MetricPoint, capacity),
		capacity: capacity,
	}, nil
}

// Append writes a point into the current head slot and advances the head.
// O(1), no allocation. Timestamps are stored as given: out-of-order or
// duplicate timestamps are accepted, and a full buffer silently drops its
// oldest point with no notification.
func (rb *RingBuffer) Append(point models.MetricPoint) {
	rb.data[rb.head] = point
	rb.head = (rb.head + 1) % rb.capacity

	if rb.size < rb.capacity {
		rb.size++
	}
}

// QueryLast returns up to min(maxPoints, size) points ordered newest to
// oldest, walking backward from the slot preceding head. An empty buffer or
// maxPoints <= 0 yields an empty slice.
func (rb *RingBuffer) QueryLast(maxPoints int) []models.MetricPoint {
	if maxPoints <= 0 || rb.size == 0 {
		return []models.MetricPoint{}
	}

	n := maxPoints
	if n > rb.size {
		n = rb.size
	}

	result := make([]models.MetricPoint, n)

	for i := 0; i < n; i++ {
		idx := (rb.head - 1 - i + rb.capacity) % rb.capacity
		result[i] = rb.data[idx]
	}

	return result
}

// QueryRange returns up to maxPoints points whose timestamp satisfies
// startMs <= ts <= endMs, scanned oldest to newest in insertion order and
// returned in that order. When more than maxPoints match, the first
// maxPoints encountered in the scan are kept; with non-decreasing input
// timestamps these are the chronologically earliest matches, but the buffer
// does not enforce ordering, so callers inserting out-of-order timestamps
// get insertion-order truncation instead. Empty for an empty buffer,
// maxPoints <= 0, or startMs > endMs.
func (rb *RingBuffer) QueryRange(startMs, endMs int64, maxPoints int) []models.MetricPoint {
	if maxPoints <= 0 || rb.size == 0 || startMs > endMs {
		return []models.MetricPoint{}
	}

	result := make([]models.MetricPoint, 0, rb.size)

	for i := 0; i < rb.size; i++ {
		idx := (rb.head - rb.size + i + rb.capacity) % rb.capacity

		point := rb.data[idx]
		if point.Timestamp >= startMs && point.Timestamp <= endMs {
			result = append(result, point)
			if len(result) == maxPoints {
				break
			}
		}
	}

	return result
}

// Size returns the number of points currently stored.
func (rb *RingBuffer) Size() int {
	return rb.size
}

// Capacity returns the fixed capacity set at construction.
func (rb *RingBuffer) Capacity() int {
	return rb.capacity
}
