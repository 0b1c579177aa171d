package pipeline

import (
	"context"
	"sync"
	"testing"

	"StreamSpectra/internal/config"
	"StreamSpectra/internal/model"
)

// memoryWriter collects written records for assertions.
type memoryWriter struct {
	mu      sync.Mutex
	records []*model.Record
	closed  bool
}

func (w *memoryWriter) Write(ctx context.Context, records []*model.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.records = append(w.records, records...)
	return nil
}

func (w *memoryWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func TestPipeline_ExtractsAndWrites(t *testing.T) {
	writer := &memoryWriter{}
	p := New(config.PipelineConfig{NumWorkers: 2, FlushBatchSize: 2}, []model.Writer{writer})
	p.Start()

	p.Input() <- &model.Capture{
		ContentType: "music",
		ContentID:   "spotify:track:a",
		Genre:       "edm",
		Packets: []model.PacketObservation{
			{ArrivalTime: 0.0, PayloadSize: 100},
			{ArrivalTime: 0.1, PayloadSize: 200},
			{ArrivalTime: 0.2, PayloadSize: 150},
			{ArrivalTime: 3.0, PayloadSize: 300},
			{ArrivalTime: 3.1, PayloadSize: 100},
		},
	}
	// An empty capture still yields a record, all features zero.
	p.Input() <- &model.Capture{ContentType: "music", ContentID: "spotify:track:b", Genre: "edm"}

	p.Stop()

	writer.mu.Lock()
	defer writer.mu.Unlock()
	if len(writer.records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(writer.records))
	}
	if !writer.closed {
		t.Error("Expected writer to be closed on Stop")
	}

	byID := make(map[string]*model.Record, len(writer.records))
	for _, record := range writer.records {
		byID[record.ContentID] = record
	}

	full := byID["spotify:track:a"]
	if full == nil {
		t.Fatal("Missing record for spotify:track:a")
	}
	if full.Features.NumPackets != 5 || full.Features.NumSilenceGaps != 1 {
		t.Errorf("Unexpected features: %+v", full.Features)
	}
	if full.Genre != "edm" || full.ContentType != "music" {
		t.Errorf("Labels not carried through: %+v", full)
	}
	if full.CapturedAt.IsZero() {
		t.Error("Expected CapturedAt to be defaulted when unset")
	}

	empty := byID["spotify:track:b"]
	if empty == nil {
		t.Fatal("Missing record for spotify:track:b")
	}
	if empty.Features != (model.FeatureRecord{}) {
		t.Errorf("Expected all-zero features for empty capture, got %+v", empty.Features)
	}
}

func TestPipeline_SkipsInvalidCapture(t *testing.T) {
	writer := &memoryWriter{}
	p := New(config.PipelineConfig{NumWorkers: 1}, []model.Writer{writer})
	p.Start()

	// One bad capture must not block the rest of the batch.
	p.Input() <- &model.Capture{
		ContentType: "music",
		ContentID:   "spotify:track:bad",
		Packets: []model.PacketObservation{
			{ArrivalTime: 0.0, PayloadSize: -5},
		},
	}
	p.Input() <- &model.Capture{
		ContentType: "music",
		ContentID:   "spotify:track:good",
		Packets: []model.PacketObservation{
			{ArrivalTime: 0.0, PayloadSize: 100},
			{ArrivalTime: 0.5, PayloadSize: 100},
		},
	}

	p.Stop()

	writer.mu.Lock()
	defer writer.mu.Unlock()
	if len(writer.records) != 1 {
		t.Fatalf("Expected 1 record (invalid capture skipped), got %d", len(writer.records))
	}
	if writer.records[0].ContentID != "spotify:track:good" {
		t.Errorf("Wrong capture survived: %s", writer.records[0].ContentID)
	}
}
