package sink

import (
	"NetSentinel/internal/config"
	"NetSentinel/internal/factory"
	"NetSentinel/internal/notification"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

func init() {
	factory.RegisterSink("clickhouse", func(def config.SinkDef) (notification.Sink, error) {
		return NewClickHouseSink(def.ClickHouse)
	})
}

const createTableStatement = `
CREATE TABLE IF NOT EXISTS notification_log (
    CapturedAt DateTime,
    ID         String,
    Kind       LowCardinality(String),
    Summary    String,
    Payload    String
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(CapturedAt)
ORDER BY (Kind, CapturedAt);
`

// ClickHouseSink batch-inserts notifications into the notification_log table.
type ClickHouseSink struct {
	conn driver.Conn
}

// NewClickHouseSink connects to ClickHouse and ensures the table exists.
func NewClickHouseSink(cfg config.ClickHouseConfig) (*ClickHouseSink, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	return newClickHouseSink(conn)
}

// newClickHouseSink takes ownership of conn. It is closed if the table
// cannot be created.
func newClickHouseSink(conn driver.Conn) (*ClickHouseSink, error) {
	if err := conn.Exec(context.Background(), createTableStatement); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	log.Println("Successfully connected to ClickHouse and ensured notification_log exists.")

	return &ClickHouseSink{conn: conn}, nil
}

func connect(cfg config.ClickHouseConfig) (driver.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

func (s *ClickHouseSink) Name() string { return "clickhouse" }

// Write inserts events in a single batch.
func (s *ClickHouseSink) Write(events []notification.LoggedNotification) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(context.Background(), "INSERT INTO notification_log")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, ev := range events {
		row, err := rowOf(ev)
		if err == nil {
			err = batch.Append(row...)
		}
		if err != nil {
			if abortErr := batch.Abort(); abortErr != nil {
				log.Printf("Failed to abort clickhouse batch: %v", abortErr)
			}
			return fmt.Errorf("failed to append notification to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Wrote %d notifications to ClickHouse", len(events))
	return nil
}

func (s *ClickHouseSink) Close() error {
	return s.conn.Close()
}

// rowOf returns the column values of ev in table order.
func rowOf(ev notification.LoggedNotification) ([]any, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification %s: %w", ev.Meta().ID, err)
	}
	h := ev.Meta()
	return []any{h.CapturedAt, h.ID, string(ev.Kind()), ev.Summary(), string(payload)}, nil
}
