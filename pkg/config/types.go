package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	errInvalidDuration   = errors.New("invalid duration")
	errListenAddrMissing = errors.New("listen_addr is required")
	errInvalidCapacity   = errors.New("capacity must be > 0")
	errInvalidQueueSize  = errors.New("client_queue_size must be > 0")
	errInvalidBurst      = errors.New("ingest_burst must be > 0 when ingest_rate_limit is set")
	errSinkPathMissing   = errors.New("sink.path is required when sink is enabled")
)

// Duration is a wrapper for time.Duration that accepts either a duration
// string ("60s") or a bare number of nanoseconds in JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

// ServerConfig is the top-level configuration for the streampulse service.
type ServerConfig struct {
	ListenAddr      string   `json:"listen_addr"`
	Capacity        int      `json:"capacity"`          // points retained per metric
	BacklogWindow   Duration `json:"backlog_window"`    // history seeded to new subscribers
	ClientQueueSize int      `json:"client_queue_size"` // per-subscriber outbound queue bound
	HubInboxSize    int      `json:"hub_inbox_size"`
	IngestRateLimit float64  `json:"ingest_rate_limit"` // points/sec per connection, 0 = unlimited
	IngestBurst     int      `json:"ingest_burst"`

	Sink SinkConfig `json:"sink"`
}

// SinkConfig configures the optional durable sink.
type SinkConfig struct {
	Enabled       bool     `json:"enabled"`
	Path          string   `json:"path"`
	Retention     Duration `json:"retention"`
	FlushInterval Duration `json:"flush_interval"`
	FeedSize      int      `json:"feed_size"`
}

// Validate implements Validator.
func (c *ServerConfig) Validate() error {
	if c.ListenAddr == "" {
		return errListenAddrMissing
	}

	if c.Capacity <= 0 {
		return errInvalidCapacity
	}

	if c.ClientQueueSize <= 0 {
		return errInvalidQueueSize
	}

	if c.IngestRateLimit > 0 && c.IngestBurst <= 0 {
		return errInvalidBurst
	}

	if c.Sink.Enabled && c.Sink.Path == "" {
		return errSinkPathMissing
	}

	return nil
}

// DefaultServerConfig returns the configuration used when no file is given.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ListenAddr:      "localhost:8080",
		Capacity:        10000,
		BacklogWindow:   Duration(60 * time.Second),
		ClientQueueSize: 256,
		HubInboxSize:    256,
		Sink: SinkConfig{
			Retention:     Duration(24 * time.Hour),
			FlushInterval: Duration(5 * time.Second),
			FeedSize:      1024,
		},
	}
}
