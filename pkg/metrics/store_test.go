package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvaughn716/streampulse/pkg/models"
)

func storePoint(name string, ts int64, value float64) models.MetricPoint {
	return models.MetricPoint{
		Timestamp:  ts,
		MetricType: "gauge",
		MetricName: name,
		Value:      value,
	}
}

func TestNewStore(t *testing.T) {
	_, err := NewStore(0)
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	s, err := NewStore(100)
	require.NoError(t, err)
	assert.Empty(t, s.MetricNames())
}

func TestStoreLazyCreation(t *testing.T) {
	s, err := NewStore(10)
	require.NoError(t, err)

	s.Append(storePoint("cpu.usage", 1000, 0.5))
	s.Append(storePoint("mem.rss", 1000, 1024))
	s.Append(storePoint("cpu.usage", 2000, 0.6))

	names := s.MetricNames()
	assert.ElementsMatch(t, []string{"cpu.usage", "mem.rss"}, names)

	got := s.QueryLast("cpu.usage", 10)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2000), got[0].Timestamp)
}

func TestStoreUnknownMetric(t *testing.T) {
	s, err := NewStore(10)
	require.NoError(t, err)

	// Unknown names are a soft miss: empty result, never an error.
	assert.Empty(t, s.QueryLast("nonexistent", 10))
	assert.Empty(t, s.QueryRange("nonexistent", 0, 10000, 10))
}

func TestStoreQueryRange(t *testing.T) {
	s, err := NewStore(10)
	require.NoError(t, err)

	for _, ts := range []int64{1000, 2000, 3000, 4000, 5000} {
		s.Append(storePoint("latency", ts, float64(ts)))
	}

	got := s.QueryRange("latency", 2000, 4000, 10)
	require.Len(t, got, 3)
	assert.Equal(t, int64(2000), got[0].Timestamp)
	assert.Equal(t, int64(4000), got[2].Timestamp)

	assert.Empty(t, s.QueryRange("latency", 5000, 1000, 10))
}

func TestStoreSharedCapacity(t *testing.T) {
	s, err := NewStore(2)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		s.Append(storePoint("m", int64(i)*1000, float64(i)))
	}

	got := s.QueryLast("m", 10)
	require.Len(t, got, 2)
	assert.Equal(t, int64(4000), got[0].Timestamp)
	assert.Equal(t, int64(3000), got[1].Timestamp)
}

func TestStoreRecentWindow(t *testing.T) {
	s, err := NewStore(100)
	require.NoError(t, err)

	now := time.Now().UnixMilli()

	s.Append(storePoint("fresh", now-1000, 1.0))
	s.Append(storePoint("fresh", now-500, 2.0))
	s.Append(storePoint("stale", now-120_000, 3.0))

	window := s.RecentWindow(60 * time.Second)

	require.Contains(t, window, "fresh")
	assert.Len(t, window["fresh"], 2)

	// Metrics with no points in the window are omitted entirely.
	assert.NotContains(t, window, "stale")
}

func TestStoreConcurrentAccess(t *testing.T) {
	s, err := NewStore(1000)
	require.NoError(t, err)

	const goroutines = 10

	const iterations = 200

	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)

		go func(id int) {
			defer wg.Done()

			for j := 0; j < iterations; j++ {
				s.Append(storePoint("shared", int64(id*iterations+j), float64(j)))
				s.QueryLast("shared", 5)
				s.QueryRange("shared", 0, 1<<62, 5)
				s.MetricNames()
			}
		}(i)
	}

	wg.Wait()

	// 2000 appends into a capacity-1000 buffer: retention saturates.
	assert.Len(t, s.QueryLast("shared", goroutines*iterations), 1000)
}
