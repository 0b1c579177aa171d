package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"StreamSpectra/internal/config"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// LabelSummary aggregates the dataset for one (content_type, genre) label pair.
type LabelSummary struct {
	ContentType     string  `json:"content_type"`
	Genre           string  `json:"genre"`
	Records         uint64  `json:"records"`
	AvgPktRate      float64 `json:"avg_pkt_rate"`
	AvgFlowDuration float64 `json:"avg_flow_duration"`
	AvgSilenceRatio float64 `json:"avg_silence_ratio"`
}

// RecordRow is one dataset record as returned by the API.
type RecordRow struct {
	CapturedAt  time.Time `json:"captured_at"`
	ContentType string    `json:"content_type"`
	ContentID   string    `json:"content_id"`
	Genre       string    `json:"genre"`
	NumPackets  uint64    `json:"num_packets"`
	PktRate     float64   `json:"pkt_rate"`
	BurstMax    float64   `json:"burst_max"`
}

// Querier defines the interface for querying the generated dataset.
type Querier interface {
	Summaries(ctx context.Context, contentType string) ([]LabelSummary, error)
	RecentRecords(ctx context.Context, limit int) ([]RecordRow, error)
}

// clickhouseQuerier implements the Querier interface for ClickHouse.
type clickhouseQuerier struct {
	conn clickhouse.Conn
}

// NewClickHouseQuerier creates a new querier for ClickHouse.
func NewClickHouseQuerier(cfg config.ClickHouseConfig) (Querier, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	return &clickhouseQuerier{conn: conn}, nil
}

func connect(cfg config.ClickHouseConfig) (clickhouse.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
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

// Summaries aggregates the dataset by content type and genre, optionally
// filtered to one content type.
func (q *clickhouseQuerier) Summaries(ctx context.Context, contentType string) ([]LabelSummary, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT
			ContentType,
			Genre,
			COUNT(*) AS Records,
			avg(PktRate) AS AvgPktRate,
			avg(FlowDuration) AS AvgFlowDuration,
			avg(SilenceRatio) AS AvgSilenceRatio
		FROM feature_records
	`)

	args := []interface{}{}
	if contentType != "" {
		queryBuilder.WriteString(" WHERE ContentType = ?")
		args = append(args, contentType)
	}
	queryBuilder.WriteString(`
		GROUP BY ContentType, Genre
		ORDER BY Records DESC
	`)

	rows, err := q.conn.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute summary query: %w", err)
	}
	defer rows.Close()

	var summaries []LabelSummary
	for rows.Next() {
		var s LabelSummary
		if err := rows.Scan(&s.ContentType, &s.Genre, &s.Records, &s.AvgPktRate, &s.AvgFlowDuration, &s.AvgSilenceRatio); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, nil
}

// RecentRecords returns the most recently captured records.
func (q *clickhouseQuerier) RecentRecords(ctx context.Context, limit int) ([]RecordRow, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := q.conn.Query(ctx, `
		SELECT CapturedAt, ContentType, ContentID, Genre, NumPackets, PktRate, BurstMax
		FROM feature_records
		ORDER BY CapturedAt DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute records query: %w", err)
	}
	defer rows.Close()

	var records []RecordRow
	for rows.Next() {
		var r RecordRow
		if err := rows.Scan(&r.CapturedAt, &r.ContentType, &r.ContentID, &r.Genre, &r.NumPackets, &r.PktRate, &r.BurstMax); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		records = append(records, r)
	}

	return records, nil
}
