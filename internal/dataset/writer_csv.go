package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"StreamSpectra/internal/model"
)

// csvHeader fixes the dataset column order: the classification labels first,
// then the packet count, then the thirteen traffic-shape features.
var csvHeader = []string{
	"content_type", "genre", "content_id", "num_packets",
	"pkt_size_mean", "pkt_size_std", "pkt_size_cv",
	"inter_mean", "inter_std", "inter_cv", "p95_inter",
	"burst_mean", "burst_max", "num_silence_gaps",
	"silence_ratio", "flow_duration", "pkt_rate",
}

// sessionFileColumn is appended by Merge to identify the source session CSV.
const sessionFileColumn = "session_file"

// CSVWriter appends dataset records to a single CSV file, creating it with a
// header row on first use. It implements the model.Writer interface.
type CSVWriter struct {
	path string
}

// NewCSVWriter creates a CSV writer for the given file path.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Write appends the records, writing the header first when the file is new.
func (w *CSVWriter) Write(ctx context.Context, records []*model.Record) error {
	if len(records) == 0 {
		return nil
	}

	writeHeader := false
	if _, err := os.Stat(w.path); os.IsNotExist(err) {
		writeHeader = true
		if dir := filepath.Dir(w.path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create dataset directory: %w", err)
			}
		}
	}

	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open dataset file '%s': %w", w.path, err)
	}
	defer file.Close()

	csvWriter := csv.NewWriter(file)
	if writeHeader {
		if err := csvWriter.Write(csvHeader); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}
	for _, record := range records {
		if err := csvWriter.Write(Row(record)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// Close is a no-op; every Write leaves the file flushed and closed.
func (w *CSVWriter) Close() error {
	return nil
}

// Row renders a record in the fixed column order.
func Row(record *model.Record) []string {
	ft := record.Features
	return []string{
		record.ContentType,
		record.Genre,
		record.ContentID,
		strconv.Itoa(ft.NumPackets),
		formatFloat(ft.PktSizeMean),
		formatFloat(ft.PktSizeStd),
		formatFloat(ft.PktSizeCV),
		formatFloat(ft.InterMean),
		formatFloat(ft.InterStd),
		formatFloat(ft.InterCV),
		formatFloat(ft.P95Inter),
		formatFloat(ft.BurstMean),
		formatFloat(ft.BurstMax),
		strconv.Itoa(ft.NumSilenceGaps),
		formatFloat(ft.SilenceRatio),
		formatFloat(ft.FlowDuration),
		formatFloat(ft.PktRate),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
