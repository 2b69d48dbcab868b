package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "streampulse.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadAndValidate(t *testing.T) {
	path := writeConfig(t, `{
		"listen_addr": "127.0.0.1:9090",
		"capacity": 5000,
		"backlog_window": "30s",
		"client_queue_size": 128,
		"ingest_rate_limit": 1000,
		"ingest_burst": 100,
		"sink": {
			"enabled": true,
			"path": "/tmp/streampulse.db",
			"retention": "12h",
			"flush_interval": "2s"
		}
	}`)

	cfg := DefaultServerConfig()
	require.NoError(t, LoadAndValidate(path, cfg))

	assert.Equal(t, "127.0.0.1:9090", cfg.ListenAddr)
	assert.Equal(t, 5000, cfg.Capacity)
	assert.Equal(t, 30*time.Second, time.Duration(cfg.BacklogWindow))
	assert.Equal(t, 128, cfg.ClientQueueSize)
	assert.True(t, cfg.Sink.Enabled)
	assert.Equal(t, 12*time.Hour, time.Duration(cfg.Sink.Retention))
}

func TestLoadFileMissing(t *testing.T) {
	cfg := DefaultServerConfig()
	assert.Error(t, LoadAndValidate("/nonexistent/streampulse.json", cfg))
}

func TestDurationUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "string form", input: `"90s"`, want: 90 * time.Second},
		{name: "numeric nanoseconds", input: `1000000000`, want: time.Second},
		{name: "bad string", input: `"ninety"`, wantErr: true},
		{name: "wrong type", input: `[1]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration

			err := d.UnmarshalJSON([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}

func TestServerConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr error
	}{
		{name: "defaults are valid", mutate: func(*ServerConfig) {}},
		{
			name:    "missing listen addr",
			mutate:  func(c *ServerConfig) { c.ListenAddr = "" },
			wantErr: errListenAddrMissing,
		},
		{
			name:    "zero capacity",
			mutate:  func(c *ServerConfig) { c.Capacity = 0 },
			wantErr: errInvalidCapacity,
		},
		{
			name:    "zero queue size",
			mutate:  func(c *ServerConfig) { c.ClientQueueSize = 0 },
			wantErr: errInvalidQueueSize,
		},
		{
			name: "rate limit without burst",
			mutate: func(c *ServerConfig) {
				c.IngestRateLimit = 100
				c.IngestBurst = 0
			},
			wantErr: errInvalidBurst,
		},
		{
			name: "sink enabled without path",
			mutate: func(c *ServerConfig) {
				c.Sink.Enabled = true
				c.Sink.Path = ""
			},
			wantErr: errSinkPathMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
