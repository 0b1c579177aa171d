package main

import (
	"flag"
	"log"

	"StreamSpectra/internal/dataset"
)

func main() {
	dir := flag.String("dir", "dataset", "Directory containing the per-session CSV files.")
	out := flag.String("out", "dataset/merged_dataset.csv", "Path of the merged output CSV.")
	summary := flag.String("summary", "", "Optional path for a text summary of the merged dataset.")
	flag.Parse()

	result, err := dataset.Merge(*dir, *out)
	if err != nil {
		log.Fatalf("Merge failed: %v", err)
	}
	log.Printf("Merged %d files (%d rows) into %s", result.Files, result.Rows, *out)
	for contentType, count := range result.TypeCounts {
		log.Printf("  %s: %d rows", contentType, count)
	}

	if *summary != "" {
		if err := dataset.WriteSummary(result, *summary); err != nil {
			log.Fatalf("Failed to write summary: %v", err)
		}
		log.Printf("Summary written to %s", *summary)
	}
}
