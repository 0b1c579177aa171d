package spotify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"StreamSpectra/internal/config"
)

// newTestClient wires a client against httptest servers standing in for the
// accounts and API endpoints.
func newTestClient(t *testing.T, apiHandler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	accounts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/token" {
			t.Errorf("unexpected accounts path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			t.Errorf("token request missing basic auth credentials")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse token form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "refresh_token" {
			t.Errorf("expected grant_type refresh_token, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-access-token",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(accounts.Close)

	api := httptest.NewServer(apiHandler)
	t.Cleanup(api.Close)

	client := NewClient(config.SpotifyConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RefreshToken: "refresh-token",
	})
	client.apiBaseURL = api.URL
	client.accountsBaseURL = accounts.URL
	return client, api
}

func TestClient_PlaylistTracks(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/playlists/pl123/tracks" {
			t.Errorf("unexpected API path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-access-token" {
			t.Errorf("expected bearer token header, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "2" {
			t.Errorf("expected limit=2, got %q", got)
		}
		w.Write([]byte(`{
			"items": [
				{"track": {"uri": "spotify:track:a", "name": "Song A", "artists": [{"id": "art1", "name": "Artist One"}]}},
				{"track": null},
				{"track": {"uri": "spotify:track:b", "name": "Song B", "artists": []}}
			]
		}`))
	})

	tracks, err := client.PlaylistTracks(context.Background(), "pl123", 2)
	if err != nil {
		t.Fatalf("PlaylistTracks failed: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks (null item skipped), got %d", len(tracks))
	}
	if tracks[0].URI != "spotify:track:a" || tracks[0].Artist != "Artist One" || tracks[0].ArtistID != "art1" {
		t.Errorf("unexpected first track: %+v", tracks[0])
	}
	if tracks[1].ArtistID != "" {
		t.Errorf("track without artists should have empty ArtistID, got %q", tracks[1].ArtistID)
	}
}

func TestClient_Devices(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/player/devices" {
			t.Errorf("unexpected API path %s", r.URL.Path)
		}
		w.Write([]byte(`{"devices": [{"id": "dev1", "name": "Living Room", "is_active": true}]}`))
	})

	devices, err := client.Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices failed: %v", err)
	}
	if len(devices) != 1 || devices[0].Name != "Living Room" || !devices[0].IsActive {
		t.Errorf("unexpected devices: %+v", devices)
	}
}

func TestClient_StartPlayback(t *testing.T) {
	var gotBody struct {
		URIs       []string `json:"uris"`
		PositionMS int      `json:"position_ms"`
	}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/me/player/play" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("device_id"); got != "dev1" {
			t.Errorf("expected device_id=dev1, got %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode playback body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.StartPlayback(context.Background(), "dev1", []string{"spotify:track:a"}); err != nil {
		t.Fatalf("StartPlayback failed: %v", err)
	}
	if len(gotBody.URIs) != 1 || gotBody.URIs[0] != "spotify:track:a" || gotBody.PositionMS != 0 {
		t.Errorf("unexpected playback body: %+v", gotBody)
	}
}

func TestClient_APIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})

	if _, err := client.Devices(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx API response")
	}
}

func TestGenreResolver_Resolve(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/artists/with-genres":
			w.Write([]byte(`{"genres": ["neo-psychedelic", "indie"]}`))
		case "/artists/no-genres":
			w.Write([]byte(`{"genres": []}`))
		default:
			http.NotFound(w, r)
		}
	})

	resolver, err := NewGenreResolver(client, config.GenreCacheConfig{})
	if err != nil {
		t.Fatalf("NewGenreResolver failed: %v", err)
	}

	if got := resolver.Resolve(context.Background(), "with-genres"); got != "neo-psychedelic" {
		t.Errorf("expected first genre tag, got %q", got)
	}
	if got := resolver.Resolve(context.Background(), "no-genres"); got != UnknownGenre {
		t.Errorf("expected %q for artist without genres, got %q", UnknownGenre, got)
	}
	if got := resolver.Resolve(context.Background(), ""); got != UnknownGenre {
		t.Errorf("expected %q for empty artist ID, got %q", UnknownGenre, got)
	}
	// Lookup failures degrade to the unknown label rather than erroring.
	if got := resolver.Resolve(context.Background(), "missing"); got != UnknownGenre {
		t.Errorf("expected %q for failed lookup, got %q", UnknownGenre, got)
	}
}
