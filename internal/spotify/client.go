package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"StreamSpectra/internal/config"
)

const (
	defaultAPIBaseURL      = "https://api.spotify.com/v1"
	defaultAccountsBaseURL = "https://accounts.spotify.com"

	// Refresh the access token slightly before the server-side expiry.
	tokenExpiryMargin = 30 * time.Second
)

// Client is a thin Spotify Web API client covering the calls the dataset
// generator needs: device discovery, playback control, playlist traversal
// and artist genre lookup.
type Client struct {
	httpClient      *http.Client
	apiBaseURL      string
	accountsBaseURL string
	clientID        string
	clientSecret    string
	refreshToken    string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// Device is a playback device attached to the account.
type Device struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// Track is one playable item from a playlist.
type Track struct {
	URI      string
	Name     string
	Artist   string
	ArtistID string
}

// NewClient creates a client from the configured OAuth credentials.
func NewClient(cfg config.SpotifyConfig) *Client {
	return &Client{
		httpClient:      &http.Client{Timeout: 15 * time.Second},
		apiBaseURL:      defaultAPIBaseURL,
		accountsBaseURL: defaultAccountsBaseURL,
		clientID:        cfg.ClientID,
		clientSecret:    cfg.ClientSecret,
		refreshToken:    cfg.RefreshToken,
	}
}

// token returns a valid access token, refreshing it when the cached one is
// missing or about to expire.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-tokenExpiryMargin)) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", c.refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.accountsBaseURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	c.accessToken = body.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

// do issues an authenticated API request and decodes the JSON response into
// out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body string, out interface{}) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	u := c.apiBaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("spotify API returned status %d for %s", resp.StatusCode, path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response for %s: %w", path, err)
		}
	}
	return nil
}

// Devices lists the playback devices attached to the account.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	var body struct {
		Devices []Device `json:"devices"`
	}
	if err := c.do(ctx, http.MethodGet, "/me/player/devices", nil, "", &body); err != nil {
		return nil, err
	}
	return body.Devices, nil
}

// StartPlayback starts playing the given URIs from the beginning on the device.
func (c *Client) StartPlayback(ctx context.Context, deviceID string, uris []string) error {
	query := url.Values{}
	if deviceID != "" {
		query.Set("device_id", deviceID)
	}

	payload := struct {
		URIs       []string `json:"uris"`
		PositionMS int      `json:"position_ms"`
	}{URIs: uris, PositionMS: 0}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal playback request: %w", err)
	}

	return c.do(ctx, http.MethodPut, "/me/player/play", query, string(body), nil)
}

// PlaylistTracks fetches up to limit tracks from a playlist. Items without a
// playable track (removed or region-locked entries) are skipped.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]Track, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var body struct {
		Items []struct {
			Track *struct {
				URI     string `json:"uri"`
				Name    string `json:"name"`
				Artists []struct {
					ID   string `json:"id"`
					Name string `json:"name"`
				} `json:"artists"`
			} `json:"track"`
		} `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/playlists/"+playlistID+"/tracks", query, "", &body); err != nil {
		return nil, err
	}

	var tracks []Track
	for _, item := range body.Items {
		if item.Track == nil {
			continue
		}
		track := Track{URI: item.Track.URI, Name: item.Track.Name}
		if len(item.Track.Artists) > 0 {
			track.Artist = item.Track.Artists[0].Name
			track.ArtistID = item.Track.Artists[0].ID
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

// ArtistGenres returns the genre tags of an artist.
func (c *Client) ArtistGenres(ctx context.Context, artistID string) ([]string, error) {
	var body struct {
		Genres []string `json:"genres"`
	}
	if err := c.do(ctx, http.MethodGet, "/artists/"+artistID, nil, "", &body); err != nil {
		return nil, err
	}
	return body.Genres, nil
}
