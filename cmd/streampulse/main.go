package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/tvaughn716/streampulse/pkg/config"
	"github.com/tvaughn716/streampulse/pkg/hub"
	"github.com/tvaughn716/streampulse/pkg/lifecycle"
	"github.com/tvaughn716/streampulse/pkg/metrics"
	"github.com/tvaughn716/streampulse/pkg/server"
	"github.com/tvaughn716/streampulse/pkg/sink"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config file")
	addr := flag.String("addr", "", "Override listen address")
	capacity := flag.Int("capacity", 0, "Override per-metric point capacity")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.DefaultServerConfig()

	if *configPath != "" {
		if err := config.LoadAndValidate(*configPath, cfg); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	if *capacity > 0 {
		cfg.Capacity = *capacity
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	store, err := metrics.NewStore(cfg.Capacity)
	if err != nil {
		log.Fatalf("Failed to create metric store: %v", err)
	}

	h := hub.NewHub(store, hub.Config{
		BacklogWindow: time.Duration(cfg.BacklogWindow),
		InboxSize:     cfg.HubInboxSize,
	})

	var services []lifecycle.Service

	if cfg.Sink.Enabled {
		durable, err := sink.New(cfg.Sink)
		if err != nil {
			log.Fatalf("Failed to open sink: %v", err)
		}

		h.AddTap(durable.Feed())
		services = append(services, durable)

		log.Printf("Durable sink enabled at %s", cfg.Sink.Path)
	}

	services = append(services, server.NewServer(cfg, store, h))

	if err := lifecycle.Run(context.Background(), services...); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
