package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"StreamSpectra/internal/config"
	"StreamSpectra/internal/query"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultRecordLimit = 100

type server struct {
	querier query.Querier
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the configuration file.")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Connect to the dataset store
	chCfg, found := findClickHouseConfig(cfg.Dataset)
	if !found {
		log.Fatalf("No enabled clickhouse writer found in config.")
	}
	querier, err := query.NewClickHouseQuerier(chCfg)
	if err != nil {
		log.Fatalf("Failed to connect to ClickHouse: %v", err)
	}
	s := &server{querier: querier}

	// 3. Set up routes
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/summaries", s.handleSummaries).Methods("GET")
	r.HandleFunc("/api/v1/records", s.handleRecords).Methods("GET")
	r.Handle("/metrics", promhttp.Handler())

	listenAddr := cfg.API.ListenAddr
	if listenAddr == "" {
		listenAddr = ":8080"
	}
	srv := &http.Server{
		Addr:         listenAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// 4. Start the server and wait for a shutdown signal
	go func() {
		log.Printf("API server listening on %s", listenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("API server failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutdown signal received, stopping API server.")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}
	log.Println("API server stopped.")
}

// handleSummaries returns per-label aggregates, optionally filtered by the
// content_type query parameter.
func (s *server) handleSummaries(w http.ResponseWriter, r *http.Request) {
	contentType := r.URL.Query().Get("content_type")

	summaries, err := s.querier.Summaries(r.Context(), contentType)
	if err != nil {
		log.Printf("Error querying summaries: %v", err)
		http.Error(w, "failed to query summaries", http.StatusInternalServerError)
		return
	}
	writeJSON(w, summaries)
}

// handleRecords returns the most recent dataset rows, newest first. The limit
// query parameter caps the row count.
func (s *server) handleRecords(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecordLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := s.querier.RecentRecords(r.Context(), limit)
	if err != nil {
		log.Printf("Error querying records: %v", err)
		http.Error(w, "failed to query records", http.StatusInternalServerError)
		return
	}
	writeJSON(w, records)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
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
