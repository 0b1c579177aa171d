package main

import (
	"flag"
	"log"
	"path/filepath"
	"strings"
	"time"

	"StreamSpectra/internal/config"
	"StreamSpectra/internal/dataset"
	"StreamSpectra/internal/model"
	"StreamSpectra/internal/pipeline"
	"StreamSpectra/pkg/pcap"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the configuration file.")
	contentType := flag.String("content-type", "music", "Content type label for the extracted records.")
	genre := flag.String("genre", "unknown", "Genre label for the extracted records.")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		log.Fatalf("Usage: pcap-extract [flags] <file.pcap> [more.pcap ...]")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	writers, err := dataset.NewWriters(cfg.Dataset)
	if err != nil {
		log.Fatalf("Failed to create dataset writers: %v", err)
	}
	pl := pipeline.New(cfg.Pipeline, writers)
	pl.Start()

	for _, file := range files {
		reader, err := pcap.NewReader(file)
		if err != nil {
			log.Printf("Error opening %s: %v, skipping.", file, err)
			continue
		}
		packets := reader.ReadCapture()
		reader.Close()
		log.Printf("Read %d packets from %s", len(packets), file)

		pl.Input() <- &model.Capture{
			ContentType: *contentType,
			ContentID:   contentID(file),
			Genre:       *genre,
			CapturedAt:  time.Now().UTC(),
			Packets:     packets,
		}
	}

	pl.Stop()
	log.Printf("Extraction complete: %d files processed.", len(files))
}

// contentID derives a record identifier from the pcap file name.
func contentID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
