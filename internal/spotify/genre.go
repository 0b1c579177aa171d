package spotify

import (
	"context"
	"fmt"
	"log"
	"time"

	"StreamSpectra/internal/config"

	"github.com/redis/go-redis/v9"
)

const defaultGenreTTL = 24 * time.Hour

// UnknownGenre labels tracks whose artist has no genre tags or whose lookup
// failed.
const UnknownGenre = "unknown"

// GenreResolver labels a track with its artist's primary genre, optionally
// caching lookups in Redis so repeated artists across captures do not re-hit
// the API.
type GenreResolver struct {
	client *Client
	rdb    *redis.Client
	ttl    time.Duration
}

// NewGenreResolver creates a resolver. The Redis cache is only attached when
// enabled in the config; without it every lookup goes to the API.
func NewGenreResolver(client *Client, cfg config.GenreCacheConfig) (*GenreResolver, error) {
	r := &GenreResolver{client: client, ttl: defaultGenreTTL}
	if cfg.Enabled {
		if cfg.TTL != "" {
			ttl, err := time.ParseDuration(cfg.TTL)
			if err != nil {
				return nil, fmt.Errorf("invalid genre cache TTL: %w", err)
			}
			r.ttl = ttl
		}
		r.rdb = redis.NewClient(&redis.Options{Addr: cfg.Addr})
	}
	return r, nil
}

// Resolve returns the artist's first genre tag, or UnknownGenre when the
// artist has none or the lookup fails. Failures are logged, not returned:
// a missing label must not abort a dataset run.
func (r *GenreResolver) Resolve(ctx context.Context, artistID string) string {
	if artistID == "" {
		return UnknownGenre
	}

	key := "genre:" + artistID
	if r.rdb != nil {
		if genre, err := r.rdb.Get(ctx, key).Result(); err == nil {
			return genre
		}
	}

	genres, err := r.client.ArtistGenres(ctx, artistID)
	if err != nil {
		log.Printf("Warning: could not fetch genre for artist %s: %v", artistID, err)
		return UnknownGenre
	}
	genre := UnknownGenre
	if len(genres) > 0 {
		genre = genres[0]
	}

	if r.rdb != nil {
		if err := r.rdb.Set(ctx, key, genre, r.ttl).Err(); err != nil {
			log.Printf("Warning: could not cache genre for artist %s: %v", artistID, err)
		}
	}
	return genre
}

// Close releases the cache connection if one was attached.
func (r *GenreResolver) Close() error {
	if r.rdb != nil {
		return r.rdb.Close()
	}
	return nil
}
