package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/tvaughn716/streampulse/pkg/hub"
	"github.com/tvaughn716/streampulse/pkg/models"
	"github.com/tvaughn716/streampulse/pkg/telemetry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool {
		return true // writers and dashboards connect cross-origin
	},
}

// handleIngest accepts a stream of text frames, one JSON point each. Every
// parsed frame causes exactly one store append followed by one broadcast.
// Malformed frames are logged and dropped without closing the connection.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ingest: upgrade from %s: %v", r.RemoteAddr, err)
		return
	}
	defer conn.Close()

	log.Printf("ingest: writer connected from %s", r.RemoteAddr)

	var limiter *rate.Limiter
	if s.cfg.IngestRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.IngestRateLimit), s.cfg.IngestBurst)
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ingest: read from %s: %v", r.RemoteAddr, err)
			}

			break
		}

		if limiter != nil {
			if err := limiter.Wait(r.Context()); err != nil {
				break
			}
		}

		var point models.MetricPoint
		if err := json.Unmarshal(message, &point); err != nil {
			telemetry.MalformedFrames.Inc()
			log.Printf("ingest: dropping malformed frame from %s: %v", r.RemoteAddr, err)

			continue
		}

		s.store.Append(point)
		s.hub.Broadcast(point)
		telemetry.PointsIngested.Inc()
	}

	log.Printf("ingest: writer disconnected from %s", r.RemoteAddr)
}

// handleLive registers a dashboard subscriber. The hub seeds it with the
// backlog window, then it receives every broadcast point until it
// disconnects or is evicted as a slow consumer.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("live: upgrade from %s: %v", r.RemoteAddr, err)
		return
	}

	client := hub.NewClient(s.hub, conn, s.cfg.ClientQueueSize)
	s.hub.Register(client)
	client.Start()
}
