package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StreamSpectra/internal/config"
	"StreamSpectra/internal/dataset"
	"StreamSpectra/internal/model"
	"StreamSpectra/internal/publish"
)

const writeTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the configuration file.")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Find the ClickHouse writer definition
	chCfg, found := findClickHouseConfig(cfg.Dataset)
	if !found {
		log.Fatalf("No enabled clickhouse writer found in config.")
	}

	writer, err := dataset.NewClickHouseWriter(chCfg)
	if err != nil {
		log.Fatalf("Failed to create ClickHouse writer: %v", err)
	}
	defer writer.Close()

	// 3. Subscribe and write each received record
	subscriber, err := publish.NewSubscriber(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer subscriber.Close()

	err = subscriber.Start(func(record *model.Record) {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := writer.Write(ctx, []*model.Record{record}); err != nil {
			log.Printf("Error writing record for %s: %v", record.ContentID, err)
			return
		}
		log.Printf("Ingested record: %s/%s (%d packets)", record.ContentType, record.ContentID, record.Features.NumPackets)
	})
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	// 4. Wait for a shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutdown signal received, closing ingester.")
}

// findClickHouseConfig scans the dataset writer definitions for the first
// enabled ClickHouse sink.
func findClickHouseConfig(cfg config.DatasetConfig) (config.ClickHouseConfig, bool) {
	for _, writerDef := range cfg.Writers {
		if writerDef.Enabled && writerDef.Type == "clickhouse" {
			return writerDef.ClickHouse, true
		}
	}
	return config.ClickHouseConfig{}, false
}
