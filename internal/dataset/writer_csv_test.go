package dataset

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"StreamSpectra/internal/model"
)

func sampleRecord(contentID, genre string) *model.Record {
	return &model.Record{
		ContentType: "music",
		ContentID:   contentID,
		Genre:       genre,
		CapturedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Features: model.FeatureRecord{
			NumPackets:     5,
			PktSizeMean:    170,
			PktSizeStd:     74.83314773547883,
			PktSizeCV:      0.44019498667928725,
			InterMean:      0.775,
			P95Inter:       2.395,
			BurstMean:      1.8,
			BurstMax:       3,
			NumSilenceGaps: 1,
			SilenceRatio:   0.9032258064516129,
			FlowDuration:   3.1,
			PktRate:        1.6129032258064515,
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open CSV: %v", err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	return rows
}

func TestCSVWriter_WriteAndAppend(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "dataset_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "out", "session.csv")
	writer := NewCSVWriter(path)

	records := []*model.Record{
		sampleRecord("spotify:track:a", "edm"),
		sampleRecord("spotify:track:b", "podcast"),
	}
	if err := writer.Write(context.Background(), records); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	// A second Write must append rows without repeating the header.
	if err := writer.Write(context.Background(), []*model.Record{sampleRecord("spotify:track:c", "edm")}); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 4 {
		t.Fatalf("Expected header + 3 rows, got %d rows", len(rows))
	}
	if rows[0][0] != "content_type" || rows[0][len(rows[0])-1] != "pkt_rate" {
		t.Errorf("Unexpected header: %v", rows[0])
	}
	if len(rows[0]) != 17 {
		t.Errorf("Expected 17 columns (3 labels + num_packets + 13 features), got %d", len(rows[0]))
	}

	row := rows[1]
	if row[0] != "music" || row[1] != "edm" || row[2] != "spotify:track:a" {
		t.Errorf("Unexpected labels in row: %v", row)
	}
	if row[3] != "5" {
		t.Errorf("Expected num_packets 5, got %q", row[3])
	}
	if row[4] != "170" {
		t.Errorf("Expected pkt_size_mean 170, got %q", row[4])
	}
	if row[13] != "1" {
		t.Errorf("Expected num_silence_gaps 1, got %q", row[13])
	}
}

func TestCSVWriter_EmptyBatch(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "dataset_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "session.csv")
	writer := NewCSVWriter(path)
	if err := writer.Write(context.Background(), nil); err != nil {
		t.Fatalf("Write of empty batch failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Empty batch should not create the dataset file")
	}
}
