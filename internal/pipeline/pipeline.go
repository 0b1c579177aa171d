package pipeline

import (
	"context"
	"log"
	"sync"
	"time"

	"StreamSpectra/internal/config"
	"StreamSpectra/internal/feature"
	"StreamSpectra/internal/metrics"
	"StreamSpectra/internal/model"
)

const (
	defaultNumWorkers     = 4
	defaultChannelSize    = 16
	defaultFlushBatchSize = 8
)

// Pipeline fans captures out to a pool of extraction workers and batches the
// resulting records into the configured writers. Captures are independent of
// each other, so workers share nothing beyond the channels.
type Pipeline struct {
	writers        []model.Writer
	captureChannel chan *model.Capture
	recordChannel  chan *model.Record
	numWorkers     int
	flushBatchSize int
	workerWg       sync.WaitGroup
	collectorWg    sync.WaitGroup
}

// New creates a pipeline feeding the given writers, applying defaults for
// unset config values.
func New(cfg config.PipelineConfig, writers []model.Writer) *Pipeline {
	numWorkers := cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = defaultNumWorkers
	}
	channelSize := cfg.SizeOfCaptureChannel
	if channelSize <= 0 {
		channelSize = defaultChannelSize
	}
	flushBatchSize := cfg.FlushBatchSize
	if flushBatchSize <= 0 {
		flushBatchSize = defaultFlushBatchSize
	}

	return &Pipeline{
		writers:        writers,
		captureChannel: make(chan *model.Capture, channelSize),
		recordChannel:  make(chan *model.Record, channelSize),
		numWorkers:     numWorkers,
		flushBatchSize: flushBatchSize,
	}
}

// Start launches the extraction workers and the collector.
func (p *Pipeline) Start() {
	p.workerWg.Add(p.numWorkers)
	for i := 0; i < p.numWorkers; i++ {
		go p.worker()
	}

	p.collectorWg.Add(1)
	go p.collector()

	log.Printf("Pipeline started with %d workers.", p.numWorkers)
}

// Stop drains the pipeline: it waits for all queued captures to be extracted,
// flushes the remaining records, and closes the writers.
func (p *Pipeline) Stop() {
	close(p.captureChannel)
	p.workerWg.Wait()
	close(p.recordChannel)
	p.collectorWg.Wait()

	for _, writer := range p.writers {
		if err := writer.Close(); err != nil {
			log.Printf("Error closing writer: %v", err)
		}
	}
	log.Println("Pipeline stopped.")
}

// Input returns the channel to which captures should be sent for extraction.
func (p *Pipeline) Input() chan<- *model.Capture {
	return p.captureChannel
}

// worker validates and extracts queued captures. An invalid capture is
// logged and skipped; it must not block the rest of the run.
func (p *Pipeline) worker() {
	defer p.workerWg.Done()
	for capt := range p.captureChannel {
		metrics.CapturesProcessed.Inc()

		if err := feature.ValidateCapture(capt.Packets); err != nil {
			metrics.CapturesInvalid.Inc()
			log.Printf("Skipping invalid capture for %s: %v", capt.ContentID, err)
			continue
		}

		capturedAt := capt.CapturedAt
		if capturedAt.IsZero() {
			capturedAt = time.Now().UTC()
		}

		p.recordChannel <- &model.Record{
			ContentType: capt.ContentType,
			ContentID:   capt.ContentID,
			Genre:       capt.Genre,
			CapturedAt:  capturedAt,
			Features:    feature.Extract(capt.Packets),
		}
	}
}

// collector batches extracted records and fans each batch out to all writers.
func (p *Pipeline) collector() {
	defer p.collectorWg.Done()

	batch := make([]*model.Record, 0, p.flushBatchSize)
	for record := range p.recordChannel {
		batch = append(batch, record)
		if len(batch) >= p.flushBatchSize {
			p.flush(batch)
			batch = make([]*model.Record, 0, p.flushBatchSize)
		}
	}
	if len(batch) > 0 {
		p.flush(batch)
	}
}

func (p *Pipeline) flush(records []*model.Record) {
	ctx := context.Background()
	for _, writer := range p.writers {
		if err := writer.Write(ctx, records); err != nil {
			log.Printf("Error writing %d records: %v", len(records), err)
		}
	}
	metrics.RecordsWritten.Add(float64(len(records)))
}
