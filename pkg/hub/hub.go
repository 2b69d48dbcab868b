// Package hub pkg/hub/hub.go fans newly ingested points out to live
// dashboard subscribers.
package hub

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/tvaughn716/streampulse/pkg/metrics"
	"github.com/tvaughn716/streampulse/pkg/models"
	"github.com/tvaughn716/streampulse/pkg/telemetry"
)

const (
	defaultInboxSize     = 256
	defaultBacklogWindow = 60 * time.Second
)

// Hub replicates every broadcast point to all registered clients. All
// mutation of the client set happens inside the Run loop, which consumes
// register, unregister and broadcast events sequentially; no lock guards the
// set because nothing else touches it.
type Hub struct {
	store         metrics.MetricStore
	clients       map[*Client]bool
	broadcast     chan models.MetricPoint
	register      chan *Client
	unregister    chan *Client
	taps          []chan<- models.MetricPoint
	backlogWindow time.Duration
}

// Config controls hub queue sizes and the backlog window.
type Config struct {
	// BacklogWindow is how far back new subscribers are seeded with
	// history on connect. Zero means the 60s default.
	BacklogWindow time.Duration
	// InboxSize bounds the hub's broadcast inbox. Zero means the default.
	InboxSize int
}

// NewHub creates a hub over the given store. Run must be started before
// clients register.
func NewHub(store metrics.MetricStore, cfg Config) *Hub {
	if cfg.InboxSize <= 0 {
		cfg.InboxSize = defaultInboxSize
	}

	if cfg.BacklogWindow <= 0 {
		cfg.BacklogWindow = defaultBacklogWindow
	}

	return &Hub{
		store:         store,
		clients:       make(map[*Client]bool),
		broadcast:     make(chan models.MetricPoint, cfg.InboxSize),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		backlogWindow: cfg.BacklogWindow,
	}
}

// AddTap attaches an in-process subscriber fed the same broadcast stream as
// dashboard clients. Sends are non-blocking: a full tap sheds points. Taps
// must be attached before Run starts; the slice is not guarded afterwards.
func (h *Hub) AddTap(tap chan<- models.MetricPoint) {
	h.taps = append(h.taps, tap)
}

// Register queues a client for membership. The hub delivers the backlog
// snapshot before any broadcast it processes afterwards; a point already
// queued in the hub inbox at registration time may reach the client twice,
// once from the backlog and once live.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister queues removal of a client. Idempotent: unknown clients are
// ignored.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Broadcast hands a point to the hub without blocking. If the inbox is full
// the point is dropped and counted; ingestion throughput is never limited by
// subscriber speed.
func (h *Hub) Broadcast(point models.MetricPoint) {
	select {
	case h.broadcast <- point:
	default:
		telemetry.BroadcastsDropped.Inc()
		log.Printf("hub: inbox full, dropping point for %s", point.MetricName)
	}
}

// Run is the hub control loop. It exits when ctx is canceled, closing every
// client's outbound queue on the way out.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}

			return

		case c := <-h.register:
			h.clients[c] = true
			telemetry.SubscribersConnected.Inc()
			log.Printf("hub: client %s connected (total: %d)", c.ID(), len(h.clients))

			h.sendBacklog(c)

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				log.Printf("hub: client %s disconnected (total: %d)", c.ID(), len(h.clients))
			}

		case point := <-h.broadcast:
			h.fanOut(point)
		}
	}
}

// fanOut delivers one point to every tap and client. Clients whose queue is
// full are treated as slow consumers and evicted on the spot; this is the
// sole backpressure policy.
func (h *Hub) fanOut(point models.MetricPoint) {
	for _, tap := range h.taps {
		select {
		case tap <- point:
		default:
			telemetry.SinkPointsDropped.Inc()
		}
	}

	if len(h.clients) == 0 {
		return
	}

	data, err := json.Marshal(point)
	if err != nil {
		log.Printf("hub: marshal point: %v", err)
		return
	}

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			telemetry.SlowConsumersEvicted.Inc()
			log.Printf("hub: client %s too slow, evicting", c.ID())
			h.drop(c)
		}
	}
}

// sendBacklog seeds a newly registered client with the recent window across
// all known metrics. Running inside the control loop guarantees the backlog
// precedes every broadcast processed after registration.
func (h *Hub) sendBacklog(c *Client) {
	recent := h.store.RecentWindow(h.backlogWindow)

	for metricName, points := range recent {
		for _, point := range points {
			data, err := json.Marshal(point)
			if err != nil {
				log.Printf("hub: marshal backlog point for %s: %v", metricName, err)
				continue
			}

			select {
			case c.send <- data:
			default:
				// Queue filled before the backlog finished; the
				// client cannot keep up with its own seed.
				telemetry.SlowConsumersEvicted.Inc()
				log.Printf("hub: client %s saturated during backlog, evicting", c.ID())
				h.drop(c)

				return
			}
		}
	}
}

// drop removes a client from the live set and closes its queue. Must only be
// called from the Run loop.
func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	delete(h.clients, c)
	close(c.send)
	telemetry.SubscribersConnected.Dec()
}
