package dataset

import (
	"fmt"
	"log"

	"StreamSpectra/internal/config"
	"StreamSpectra/internal/model"
)

// NewWriters builds the enabled dataset writers from config. Writers that
// fail to construct are logged and skipped so one unreachable sink does not
// stop a dataset run; at least one writer must come up.
func NewWriters(cfg config.DatasetConfig) ([]model.Writer, error) {
	writers := make([]model.Writer, 0, len(cfg.Writers))
	for _, writerDef := range cfg.Writers {
		if !writerDef.Enabled {
			continue
		}

		var writer model.Writer
		var err error
		switch writerDef.Type {
		case "csv":
			writer = NewCSVWriter(writerDef.CSV.Path)
		case "clickhouse":
			writer, err = NewClickHouseWriter(writerDef.ClickHouse)
		case "nats":
			writer, err = NewNATSWriter(writerDef.NATS)
		default:
			log.Printf("Warning: unknown writer type '%s' in config, skipping.", writerDef.Type)
			continue
		}
		if err != nil {
			log.Printf("Warning: failed to create writer type '%s': %v, skipping.", writerDef.Type, err)
			continue
		}
		writers = append(writers, writer)
	}

	if len(writers) == 0 {
		return nil, fmt.Errorf("no dataset writers enabled")
	}
	return writers, nil
}
