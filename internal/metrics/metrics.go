package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CapturesProcessed counts every capture received by the extraction pipeline.
	CapturesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamspectra_captures_processed_total",
		Help: "Number of captures received by the extraction pipeline.",
	})

	// CapturesInvalid counts captures rejected by validation and skipped.
	CapturesInvalid = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamspectra_captures_invalid_total",
		Help: "Number of captures rejected by validation and skipped.",
	})

	// RecordsWritten counts feature records flushed to the dataset writers.
	RecordsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamspectra_records_written_total",
		Help: "Number of feature records flushed to dataset writers.",
	})
)
