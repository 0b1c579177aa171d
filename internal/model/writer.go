package model

import "context"

// Writer defines a generic interface for persisting dataset records.
type Writer interface {
	// Write persists a batch of records. Implementations are called from a
	// single collector goroutine and do not need to be concurrency-safe.
	Write(ctx context.Context, records []*Record) error

	// Close flushes and releases any underlying resources.
	Close() error
}
