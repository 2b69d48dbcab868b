// Package sink pkg/sink/sqlite.go persists the broadcast feed to SQLite.
// The sink is an external consumer of the hub: it subscribes through a tap
// and tolerates loss under pressure, so the in-memory core never waits on
// disk.
package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite driver
	"github.com/tvaughn716/streampulse/pkg/config"
	"github.com/tvaughn716/streampulse/pkg/models"
	"github.com/tvaughn716/streampulse/pkg/telemetry"
)

var (
	errFailedOpenDB      = errors.New("failed to open database")
	errFailedToEnableWAL = errors.New("failed to enable WAL mode")
	errFailedToInit      = errors.New("failed to initialize schema")
	errFailedToBeginTx   = errors.New("failed to begin transaction")
	errFailedToInsert    = errors.New("failed to insert points")
	errFailedToPrune     = errors.New("failed to prune old points")
	errFailedToQuery     = errors.New("failed to query points")
	errFailedToScan      = errors.New("failed to scan row")
)

const (
	// Points buffered in memory before a flush is forced.
	maxBatchSize = 500

	pruneInterval = time.Hour

	createTablesSQL = `
		CREATE TABLE IF NOT EXISTS metric_points (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			metric_type TEXT NOT NULL,
			metric_name TEXT NOT NULL,
			value REAL NOT NULL,
			labels TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_metric_points_name_time
			ON metric_points(metric_name, timestamp);
	`

	insertPointSQL = `
		INSERT INTO metric_points (timestamp, metric_type, metric_name, value, labels)
		VALUES (?, ?, ?, ?, ?);
	`

	prunePointsSQL = `DELETE FROM metric_points WHERE timestamp < ?;`
)

// SQLite is a durable sink fed by a hub tap. Inserts are batched on a flush
// interval; points older than the retention window are pruned periodically.
type SQLite struct {
	db            *sql.DB
	feed          chan models.MetricPoint
	retention     time.Duration
	flushInterval time.Duration
	done          chan struct{}
}

// New opens (or creates) the sink database and prepares the schema.
func New(cfg config.SinkConfig) (*SQLite, error) {
	sqlDB, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedOpenDB, err)
	}

	// WAL keeps readers from blocking the flush writer.
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToEnableWAL, err)
	}

	if _, err := sqlDB.Exec(createTablesSQL); err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToInit, err)
	}

	feedSize := cfg.FeedSize
	if feedSize <= 0 {
		feedSize = 1024
	}

	flushInterval := time.Duration(cfg.FlushInterval)
	if flushInterval <= 0 {
		flushInterval = 5 * time.Second
	}

	return &SQLite{
		db:            sqlDB,
		feed:          make(chan models.MetricPoint, feedSize),
		retention:     time.Duration(cfg.Retention),
		flushInterval: flushInterval,
		done:          make(chan struct{}),
	}, nil
}

// Feed returns the channel to attach as a hub tap.
func (s *SQLite) Feed() chan models.MetricPoint {
	return s.feed
}

// Start runs the batching loop until ctx is canceled, flushing whatever is
// buffered on the way out.
func (s *SQLite) Start(ctx context.Context) error {
	defer close(s.done)

	flushTicker := time.NewTicker(s.flushInterval)
	defer flushTicker.Stop()

	pruneTicker := time.NewTicker(pruneInterval)
	defer pruneTicker.Stop()

	batch := make([]models.MetricPoint, 0, maxBatchSize)

	for {
		select {
		case <-ctx.Done():
			if err := s.flush(batch); err != nil {
				log.Printf("sink: final flush: %v", err)
			}

			return nil

		case point := <-s.feed:
			batch = append(batch, point)

			if len(batch) >= maxBatchSize {
				if err := s.flush(batch); err != nil {
					log.Printf("sink: flush: %v", err)
				}

				batch = batch[:0]
			}

		case <-flushTicker.C:
			if err := s.flush(batch); err != nil {
				log.Printf("sink: flush: %v", err)
			}

			batch = batch[:0]

		case <-pruneTicker.C:
			if err := s.Prune(); err != nil {
				log.Printf("sink: prune: %v", err)
			}
		}
	}
}

// Stop waits for the loop to exit, then closes the database.
func (s *SQLite) Stop(ctx context.Context) error {
	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return s.db.Close()
}

// flush writes a batch of points in one transaction.
func (s *SQLite) flush(batch []models.MetricPoint) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %w", errFailedToBeginTx, err)
	}

	stmt, err := tx.Prepare(insertPointSQL)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %w", errFailedToInsert, err)
	}
	defer stmt.Close()

	for _, point := range batch {
		var labels []byte
		if len(point.Labels) > 0 {
			labels, _ = json.Marshal(point.Labels)
		}

		if _, err := stmt.Exec(point.Timestamp, point.MetricType, point.MetricName, point.Value, string(labels)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: %w", errFailedToInsert, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", errFailedToInsert, err)
	}

	telemetry.SinkPointsWritten.Add(float64(len(batch)))

	return nil
}

// Prune deletes points older than the retention window. A non-positive
// retention keeps everything.
func (s *SQLite) Prune() error {
	if s.retention <= 0 {
		return nil
	}

	cutoff := time.Now().Add(-s.retention).UnixMilli()

	if _, err := s.db.Exec(prunePointsSQL, cutoff); err != nil {
		return fmt.Errorf("%w: %w", errFailedToPrune, err)
	}

	return nil
}

// PointsSince returns persisted points for a metric at or after sinceMs,
// oldest first.
func (s *SQLite) PointsSince(metricName string, sinceMs int64) ([]models.MetricPoint, error) {
	rows, err := s.db.Query(`
		SELECT timestamp, metric_type, metric_name, value, labels
		FROM metric_points
		WHERE metric_name = ? AND timestamp >= ?
		ORDER BY timestamp ASC;
	`, metricName, sinceMs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToQuery, err)
	}
	defer rows.Close()

	var points []models.MetricPoint

	for rows.Next() {
		var (
			p      models.MetricPoint
			labels sql.NullString
		)

		if err := rows.Scan(&p.Timestamp, &p.MetricType, &p.MetricName, &p.Value, &labels); err != nil {
			return nil, fmt.Errorf("%w: %w", errFailedToScan, err)
		}

		if labels.Valid && labels.String != "" {
			if err := json.Unmarshal([]byte(labels.String), &p.Labels); err != nil {
				return nil, fmt.Errorf("%w: %w", errFailedToScan, err)
			}
		}

		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToQuery, err)
	}

	return points, nil
}
