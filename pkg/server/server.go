// Package server pkg/server/server.go wires the WebSocket endpoints and the
// query API over the metric store and broadcast hub.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tvaughn716/streampulse/pkg/config"
	httpx "github.com/tvaughn716/streampulse/pkg/http"
	"github.com/tvaughn716/streampulse/pkg/hub"
	"github.com/tvaughn716/streampulse/pkg/metrics"
)

// Server hosts the ingestion and subscription WebSocket endpoints plus the
// HTTP query API.
type Server struct {
	cfg        *config.ServerConfig
	store      metrics.MetricStore
	hub        *hub.Hub
	router     *mux.Router
	httpServer *http.Server
}

// NewServer builds the route table. The hub's Run loop is started by Start.
func NewServer(cfg *config.ServerConfig, store metrics.MetricStore, h *hub.Hub) *Server {
	s := &Server{
		cfg:    cfg,
		store:  store,
		hub:    h,
		router: mux.NewRouter(),
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	// WebSocket endpoints
	s.router.HandleFunc("/ws/ingest", s.handleIngest).Methods(http.MethodGet)
	s.router.HandleFunc("/ws/live", s.handleLive).Methods(http.MethodGet)

	// Query API
	s.router.HandleFunc("/api/metrics", s.listMetrics).Methods(http.MethodGet)
	s.router.HandleFunc("/api/metrics/{name}/last", s.getLast).Methods(http.MethodGet)
	s.router.HandleFunc("/api/metrics/{name}/range", s.getRange).Methods(http.MethodGet)

	// Operational endpoints
	s.router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

// Handler returns the full middleware-wrapped handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	return httpx.CommonMiddleware(httpx.RequestLogger(s.router))
}

// Start runs the hub loop and serves HTTP until ctx is canceled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	log.Printf("Starting streampulse server on %s", s.cfg.ListenAddr)
	log.Printf("Ingestion WS: ws://%s/ws/ingest", s.cfg.ListenAddr)
	log.Printf("Subscription WS: ws://%s/ws/live", s.cfg.ListenAddr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Stop drains the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
