package metrics

import (
	"sync"
	"time"

	"github.com/tvaughn716/streampulse/pkg/models"
)

// Store multiplexes one RingBuffer per metric name behind a single
// reader/writer lock. Buffers are created lazily on first append, all with
// the capacity configured at construction; they live until the store is torn
// down (there is no per-metric deletion). The lock is deliberately
// coarse-grained: per-operation work is O(1) or O(window), so striping buys
// nothing until profiling says otherwise.
type Store struct {
	mu       sync.RWMutex
	buffers  map[string]*RingBuffer
	capacity int
}

// NewStore creates a store whose metrics each retain up to capacity points.
func NewStore(capacity int) (*Store, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	return &Store{
		buffers:  make(map[string]*RingBuffer),
		capacity: capacity,
	}, nil
}

// Append records a point under its metric name, creating the ring buffer on
// first use.
func (s *Store) Append(point models.MetricPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rb, ok := s.buffers[point.MetricName]
	if !ok {
		// Capacity was validated at store construction, so this
		// cannot fail.
		rb, _ = NewRingBuffer(s.capacity)
		s.buffers[point.MetricName] = rb
	}

	rb.Append(point)
}

// QueryLast returns the most recent points for a metric, newest first.
// Unknown metric names yield an empty slice, not an error.
func (s *Store) QueryLast(metricName string, maxPoints int) []models.MetricPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rb, ok := s.buffers[metricName]
	if !ok {
		return []models.MetricPoint{}
	}

	return rb.QueryLast(maxPoints)
}

// QueryRange returns points for a metric within [startMs, endMs], oldest
// first. Unknown metric names yield an empty slice, not an error.
func (s *Store) QueryRange(metricName string, startMs, endMs int64, maxPoints int) []models.MetricPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rb, ok := s.buffers[metricName]
	if !ok {
		return []models.MetricPoint{}
	}

	return rb.QueryRange(startMs, endMs, maxPoints)
}

// MetricNames returns a snapshot of the currently known metric names.
func (s *Store) MetricNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.buffers))
	for name := range s.buffers {
		names = append(names, name)
	}

	return names
}

// RecentWindow returns, for every known metric, the points whose timestamp
// falls within [now-window, now]. Metrics with no matching points are
// omitted. Used to seed newly connected subscribers with backlog.
func (s *Store) RecentWindow(window time.Duration) map[string][]models.MetricPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	endMs := time.Now().UnixMilli()
	startMs := endMs - window.Milliseconds()

	result := make(map[string][]models.MetricPoint)

	for name, rb := range s.buffers {
		points := rb.QueryRange(startMs, endMs, rb.Capacity())
		if len(points) > 0 {
			result[name] = points
		}
	}

	return result
}
