package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CaptureConfig holds the live packet capture settings.
type CaptureConfig struct {
	Interface   string `yaml:"interface"`
	BPFFilter   string `yaml:"bpf_filter"`
	SnapshotLen int32  `yaml:"snapshot_len"`
	Promiscuous bool   `yaml:"promiscuous"`
	Duration    string `yaml:"duration"`
	PcapDir     string `yaml:"pcap_dir"`
}

// SpotifyConfig holds the credentials and playlist selection for the
// metadata/playback client.
type SpotifyConfig struct {
	ClientID          string   `yaml:"client_id"`
	ClientSecret      string   `yaml:"client_secret"`
	RefreshToken      string   `yaml:"refresh_token"`
	TracksPerPlaylist int      `yaml:"tracks_per_playlist"`
	MusicPlaylists    []string `yaml:"music_playlists"`
	PodcastPlaylists  []string `yaml:"podcast_playlists"`
}

// GenreCacheConfig configures the Redis cache for artist genre lookups.
type GenreCacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	TTL     string `yaml:"ttl"`
}

// ClickHouseConfig holds the connection parameters for a ClickHouse writer.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// CSVWriterConfig holds the settings for the CSV dataset writer.
type CSVWriterConfig struct {
	Path string `yaml:"path"`
}

// NATSConfig holds the connection parameters for record publishing.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// WriterDef defines a single dataset writer from the config file.
type WriterDef struct {
	Type       string           `yaml:"type"`
	Enabled    bool             `yaml:"enabled"`
	CSV        CSVWriterConfig  `yaml:"csv"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
	NATS       NATSConfig       `yaml:"nats"`
}

// DatasetConfig holds the configured dataset writers.
type DatasetConfig struct {
	Writers []WriterDef `yaml:"writers"`
}

// PipelineConfig holds the extraction worker pool settings.
type PipelineConfig struct {
	NumWorkers           int `yaml:"num_workers"`
	SizeOfCaptureChannel int `yaml:"size_of_capture_channel"`
	FlushBatchSize       int `yaml:"flush_batch_size"`
}

// APIConfig holds the HTTP query API settings.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Capture    CaptureConfig    `yaml:"capture"`
	Spotify    SpotifyConfig    `yaml:"spotify"`
	GenreCache GenreCacheConfig `yaml:"genre_cache"`
	Dataset    DatasetConfig    `yaml:"dataset"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	NATS       NATSConfig       `yaml:"nats"`
	API        APIConfig        `yaml:"api"`
}

// LoadConfig reads the configuration from a YAML file and returns a Config struct.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	return &cfg, nil
}
