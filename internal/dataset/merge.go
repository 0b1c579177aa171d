package dataset

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// MergeResult summarizes a merge run.
type MergeResult struct {
	Files       int
	Rows        int
	TypeCounts  map[string]int
	GenreCounts map[string]int
}

// Merge combines every per-session CSV in dir into a single dataset at
// outPath, appending a session_file column that names the source file. Files
// that cannot be parsed are logged and skipped so one bad session does not
// lose the rest.
func Merge(dir, outPath string) (*MergeResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to list session files: %w", err)
	}
	sort.Strings(files)

	outAbs, err := filepath.Abs(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output path: %w", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create merged dataset '%s': %w", outPath, err)
	}
	defer out.Close()

	csvWriter := csv.NewWriter(out)
	header := append(append([]string{}, csvHeader...), sessionFileColumn)
	if err := csvWriter.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write merged header: %w", err)
	}

	result := &MergeResult{
		TypeCounts:  make(map[string]int),
		GenreCounts: make(map[string]int),
	}
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err == nil && abs == outAbs {
			// Never fold a previous merge output back into itself.
			continue
		}

		rows, err := readSession(file)
		if err != nil {
			log.Printf("Error reading %s: %v, skipping.", file, err)
			continue
		}
		result.Files++

		sessionFile := filepath.Base(file)
		for _, row := range rows {
			if err := csvWriter.Write(append(row, sessionFile)); err != nil {
				return nil, fmt.Errorf("failed to write merged row: %w", err)
			}
			result.Rows++
			result.TypeCounts[row[0]]++
			result.GenreCounts[row[1]]++
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush merged dataset: %w", err)
	}
	if result.Files == 0 {
		return nil, fmt.Errorf("no session CSVs found in %s", dir)
	}
	return result, nil
}

// readSession reads one session CSV and returns its data rows.
func readSession(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) != len(csvHeader) || header[0] != csvHeader[0] {
		return nil, fmt.Errorf("unexpected header with %d columns", len(header))
	}

	return reader.ReadAll()
}

// WriteSummary writes a plain-text summary of a merge run: totals and the
// content-type and genre distributions of the combined dataset.
func WriteSummary(result *MergeResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "=== MERGED DATASET SUMMARY ===")
	fmt.Fprintln(file)
	fmt.Fprintf(file, "Generated: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(file, "Session files: %d\n", result.Files)
	fmt.Fprintf(file, "Total rows: %d\n", result.Rows)

	fmt.Fprintln(file)
	fmt.Fprintln(file, "--- Content type distribution ---")
	writeCounts(file, result.TypeCounts)

	fmt.Fprintln(file)
	fmt.Fprintln(file, "--- Genre distribution ---")
	writeCounts(file, result.GenreCounts)

	return nil
}

func writeCounts(file *os.File, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(file, "%s: %d\n", k, counts[k])
	}
}
