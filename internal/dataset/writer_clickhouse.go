package dataset

import (
	"context"
	"fmt"
	"log"

	"StreamSpectra/internal/config"
	"StreamSpectra/internal/model"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

const createTableStatement = `
CREATE TABLE IF NOT EXISTS feature_records (
    CapturedAt     DateTime,
    ContentType    String,
    ContentID      String,
    Genre          String,
    NumPackets     UInt64,
    PktSizeMean    Float64,
    PktSizeStd     Float64,
    PktSizeCV      Float64,
    InterMean      Float64,
    InterStd       Float64,
    InterCV        Float64,
    P95Inter       Float64,
    BurstMean      Float64,
    BurstMax       Float64,
    NumSilenceGaps UInt64,
    SilenceRatio   Float64,
    FlowDuration   Float64,
    PktRate        Float64
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(CapturedAt)
ORDER BY (ContentType, Genre, CapturedAt);
`

// ClickHouseWriter persists dataset records to the feature_records table.
// It implements the model.Writer interface.
type ClickHouseWriter struct {
	conn driver.Conn
}

// NewClickHouseWriter creates a new ClickHouse writer and ensures the table exists.
func NewClickHouseWriter(cfg config.ClickHouseConfig) (*ClickHouseWriter, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if err := conn.Exec(context.Background(), createTableStatement); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	log.Println("Successfully connected to ClickHouse and ensured table exists.")

	return &ClickHouseWriter{conn: conn}, nil
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
		Debug: false,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})

	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

// Write inserts the records into the feature_records table as one batch.
func (w *ClickHouseWriter) Write(ctx context.Context, records []*model.Record) error {
	if len(records) == 0 {
		return nil
	}

	batch, err := w.conn.PrepareBatch(ctx, "INSERT INTO feature_records")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, record := range records {
		ft := record.Features
		err := batch.Append(
			record.CapturedAt,
			record.ContentType,
			record.ContentID,
			record.Genre,
			uint64(ft.NumPackets),
			ft.PktSizeMean,
			ft.PktSizeStd,
			ft.PktSizeCV,
			ft.InterMean,
			ft.InterStd,
			ft.InterCV,
			ft.P95Inter,
			ft.BurstMean,
			ft.BurstMax,
			uint64(ft.NumSilenceGaps),
			ft.SilenceRatio,
			ft.FlowDuration,
			ft.PktRate,
		)
		if err != nil {
			return fmt.Errorf("failed to append record to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	return nil
}

// Close closes the ClickHouse connection.
func (w *ClickHouseWriter) Close() error {
	return w.conn.Close()
}
