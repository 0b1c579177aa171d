package dataset

import (
	"context"
	"fmt"

	"StreamSpectra/internal/config"
	"StreamSpectra/internal/model"
	"StreamSpectra/internal/publish"
)

// NATSWriter publishes each record to a NATS subject so a remote ingester can
// persist it. It implements the model.Writer interface.
type NATSWriter struct {
	pub *publish.Publisher
}

// NewNATSWriter creates a writer backed by a NATS publisher.
func NewNATSWriter(cfg config.NATSConfig) (*NATSWriter, error) {
	pub, err := publish.NewPublisher(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}
	return &NATSWriter{pub: pub}, nil
}

// Write publishes the records one message per record.
func (w *NATSWriter) Write(ctx context.Context, records []*model.Record) error {
	for _, record := range records {
		if err := w.pub.Publish(record); err != nil {
			return fmt.Errorf("failed to publish record for %s: %w", record.ContentID, err)
		}
	}
	return nil
}

// Close drains the underlying connection.
func (w *NATSWriter) Close() error {
	w.pub.Close()
	return nil
}
