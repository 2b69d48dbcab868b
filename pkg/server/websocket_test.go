package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvaughn716/streampulse/pkg/config"
	"github.com/tvaughn716/streampulse/pkg/hub"
	"github.com/tvaughn716/streampulse/pkg/metrics"
	"github.com/tvaughn716/streampulse/pkg/models"
)

type wsFixture struct {
	store *metrics.Store
	url   string
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()

	store, err := metrics.NewStore(1000)
	require.NoError(t, err)

	cfg := config.DefaultServerConfig()
	h := hub.NewHub(store, hub.Config{BacklogWindow: time.Duration(cfg.BacklogWindow)})
	s := NewServer(cfg, store, h)

	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	return &wsFixture{
		store: store,
		url:   "ws" + strings.TrimPrefix(ts.URL, "http"),
	}
}

func dialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	t.Cleanup(func() { conn.Close() })

	return conn
}

func sendPoint(t *testing.T, conn *websocket.Conn, p models.MetricPoint) {
	t.Helper()

	data, err := json.Marshal(p)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func readPoint(t *testing.T, conn *websocket.Conn) models.MetricPoint {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var p models.MetricPoint
	require.NoError(t, json.Unmarshal(data, &p))

	return p
}

func TestEndToEndBacklogThenLive(t *testing.T) {
	fx := newWSFixture(t)

	ingest := dialWS(t, fx.url+"/ws/ingest")

	now := time.Now().UnixMilli()
	mkPoint := func(i int) models.MetricPoint {
		return models.MetricPoint{
			Timestamp:  now - int64(6-i)*100,
			MetricType: "gauge",
			MetricName: "m",
			Value:      float64(i),
		}
	}

	// Three points before the subscriber exists.
	for i := 1; i <= 3; i++ {
		sendPoint(t, ingest, mkPoint(i))
	}

	require.Eventually(t, func() bool {
		return len(fx.store.QueryLast("m", 10)) == 3
	}, 2*time.Second, 10*time.Millisecond)

	// Give the hub a moment to drain the pre-connect broadcasts so the
	// subscriber's backlog and live stream don't overlap.
	time.Sleep(50 * time.Millisecond)

	sub := dialWS(t, fx.url+"/ws/live")

	// Backlog: the three stored points, oldest first.
	for i := 1; i <= 3; i++ {
		p := readPoint(t, sub)
		assert.Equal(t, float64(i), p.Value)
	}

	// Live: two more points, delivered in broadcast order.
	for i := 4; i <= 5; i++ {
		sendPoint(t, ingest, mkPoint(i))
	}

	for i := 4; i <= 5; i++ {
		p := readPoint(t, sub)
		assert.Equal(t, float64(i), p.Value)
	}

	// Nothing skipped, nothing duplicated.
	require.NoError(t, sub.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	_, _, err := sub.ReadMessage()
	assert.Error(t, err)
}

func TestIngestMalformedFrameKeepsConnection(t *testing.T) {
	fx := newWSFixture(t)

	ingest := dialWS(t, fx.url+"/ws/ingest")

	require.NoError(t, ingest.WriteMessage(websocket.TextMessage, []byte("not json")))

	// The connection survives and later frames still land.
	sendPoint(t, ingest, models.MetricPoint{
		Timestamp:  time.Now().UnixMilli(),
		MetricName: "m",
		Value:      1.0,
	})

	require.Eventually(t, func() bool {
		return len(fx.store.QueryLast("m", 1)) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSubscriberReceivesLabels(t *testing.T) {
	fx := newWSFixture(t)

	// Seed one point so the backlog confirms registration completed
	// before the live frame is sent.
	fx.store.Append(models.MetricPoint{
		Timestamp:  time.Now().UnixMilli(),
		MetricName: "seed",
		Value:      0,
	})

	sub := dialWS(t, fx.url+"/ws/live")

	seed := readPoint(t, sub)
	require.Equal(t, "seed", seed.MetricName)

	ingest := dialWS(t, fx.url+"/ws/ingest")
	sendPoint(t, ingest, models.MetricPoint{
		Timestamp:  time.Now().UnixMilli(),
		MetricType: "counter",
		MetricName: "orders.filled",
		Value:      3,
		Labels:     map[string]string{"venue": "primary"},
	})

	p := readPoint(t, sub)
	assert.Equal(t, "orders.filled", p.MetricName)
	assert.Equal(t, "counter", p.MetricType)
	assert.Equal(t, "primary", p.Labels["venue"])
}
