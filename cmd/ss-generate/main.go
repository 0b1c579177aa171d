package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"StreamSpectra/internal/capture"
	"StreamSpectra/internal/config"
	"StreamSpectra/internal/dataset"
	"StreamSpectra/internal/model"
	"StreamSpectra/internal/pipeline"
	"StreamSpectra/internal/spotify"
)

const (
	defaultCaptureDuration = 60 * time.Second

	// Give the player a moment to buffer before sniffing starts, and let
	// the connection quiesce between consecutive captures.
	playbackSettleDelay = 4 * time.Second
	betweenCaptureDelay = 5 * time.Second
)

// contentItem is one track or episode queued for capture.
type contentItem struct {
	contentType string
	track       spotify.Track
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

	captureDuration := defaultCaptureDuration
	if cfg.Capture.Duration != "" {
		captureDuration, err = time.ParseDuration(cfg.Capture.Duration)
		if err != nil {
			log.Fatalf("Invalid capture duration: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Set up the metadata/playback client and verify an active device
	client := spotify.NewClient(cfg.Spotify)
	resolver, err := spotify.NewGenreResolver(client, cfg.GenreCache)
	if err != nil {
		log.Fatalf("Failed to create genre resolver: %v", err)
	}
	defer resolver.Close()

	devices, err := client.Devices(ctx)
	if err != nil {
		log.Fatalf("Failed to list playback devices: %v", err)
	}
	if len(devices) == 0 {
		log.Fatalf("No playback device found. Open the player on a device first.")
	}
	device := devices[0]
	log.Printf("Active device found: %s", device.Name)

	// 3. Fetch the content to capture
	items := fetchContent(ctx, client, cfg.Spotify)
	if len(items) == 0 {
		log.Fatalf("No content found. Add playlist IDs to the configuration.")
	}
	log.Printf("Collected %d items to capture.", len(items))

	// 4. Start the extraction pipeline
	writers, err := dataset.NewWriters(cfg.Dataset)
	if err != nil {
		log.Fatalf("Failed to create dataset writers: %v", err)
	}
	pl := pipeline.New(cfg.Pipeline, writers)
	pl.Start()

	sniffer := capture.NewSniffer(cfg.Capture)

	// 5. Play and capture each item in turn
	captured := 0
	for i, item := range items {
		if ctx.Err() != nil {
			log.Println("Shutdown signal received, stopping capture loop.")
			break
		}

		log.Printf("[%d/%d] Capturing %s: %s - %s", i+1, len(items), item.contentType, item.track.Artist, item.track.Name)

		if err := client.StartPlayback(ctx, device.ID, []string{item.track.URI}); err != nil {
			log.Printf("Playback error for %s: %v, skipping.", item.track.URI, err)
			continue
		}
		time.Sleep(playbackSettleDelay)

		archive := fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), sanitizeURI(item.track.URI))
		packets, err := sniffer.Capture(ctx, captureDuration, archive)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			log.Printf("Capture error for %s: %v, skipping.", item.track.URI, err)
			continue
		}
		log.Printf("Captured %d packets.", len(packets))

		genre := "podcast"
		if item.contentType == "music" {
			genre = resolver.Resolve(ctx, item.track.ArtistID)
		}

		pl.Input() <- &model.Capture{
			ContentType: item.contentType,
			ContentID:   item.track.URI,
			Genre:       genre,
			CapturedAt:  time.Now().UTC(),
			Packets:     packets,
		}
		captured++

		if i < len(items)-1 {
			time.Sleep(betweenCaptureDelay)
		}
	}

	// 6. Drain the pipeline and flush all writers
	pl.Stop()
	log.Printf("Dataset generation complete: %d/%d items captured.", captured, len(items))
}

// fetchContent collects tracks from the music playlists and episodes from the
// podcast playlists. A playlist that fails to load is logged and skipped.
func fetchContent(ctx context.Context, client *spotify.Client, cfg config.SpotifyConfig) []contentItem {
	var items []contentItem
	for _, playlistID := range cfg.MusicPlaylists {
		tracks, err := client.PlaylistTracks(ctx, playlistID, cfg.TracksPerPlaylist)
		if err != nil {
			log.Printf("Error fetching playlist %s: %v, skipping.", playlistID, err)
			continue
		}
		log.Printf("Added %d tracks from playlist %s.", len(tracks), playlistID)
		for _, track := range tracks {
			items = append(items, contentItem{contentType: "music", track: track})
		}
	}
	for _, playlistID := range cfg.PodcastPlaylists {
		episodes, err := client.PlaylistTracks(ctx, playlistID, cfg.TracksPerPlaylist)
		if err != nil {
			log.Printf("Error fetching podcast playlist %s: %v, skipping.", playlistID, err)
			continue
		}
		log.Printf("Added %d episodes from playlist %s.", len(episodes), playlistID)
		for _, episode := range episodes {
			items = append(items, contentItem{contentType: "podcast", track: episode})
		}
	}
	return items
}

// sanitizeURI makes a content URI safe to use in a file name.
func sanitizeURI(uri string) string {
	return strings.ReplaceAll(uri, ":", "_")
}
